package wechat

import (
	"strconv"
	"time"

	"github.com/wepay-next/internal/constants"
)

const payReqPackage = "Sign=WXPay"

// PayReq 调起微信客户端的支付请求，由统一下单返回的 prepay_id 经
// 二次签名得到。Timestamp 为 unix 秒级时间戳的十进制串。
type PayReq struct {
	AppID     string
	PartnerID string
	Package   string
	NonceStr  string
	Timestamp string
	PrepayID  string
	Sign      string
}

// ToSignedPayReq 由统一下单回复构造已签名的客户端支付请求。
// 回复必须携带可用的 prepay_id。
func (r *UnifiedOrderResp) ToSignedPayReq(cfg *Config) (*PayReq, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if !r.HasPrepayID() {
		return nil, ErrNoPrepayID
	}
	req := &PayReq{
		AppID:     r.SuccessReturn.AppID,
		PartnerID: r.SuccessReturn.MchID,
		Package:   payReqPackage,
		NonceStr:  NewNonce(),
		Timestamp: strconv.FormatInt(time.Now().Unix(), 10),
		PrepayID:  r.PrepayID(),
	}
	sign, err := SignParams(map[string]string{
		"appid":     req.AppID,
		"partnerid": req.PartnerID,
		"package":   req.Package,
		"noncestr":  req.NonceStr,
		"timestamp": req.Timestamp,
		"prepayid":  req.PrepayID,
	}, cfg.SignType, cfg.AppSecret)
	if err != nil {
		return nil, err
	}
	req.Sign = sign
	return req, nil
}

// ClientResp 微信客户端支付完成后的回调结果。
// ErrCode 为 0 代表支付成功，-1 为内部错误，-2 为用户取消。
type ClientResp struct {
	ErrCode int
	ErrStr  string
}

// Succeeded 客户端回调是否为支付成功
func (r ClientResp) Succeeded() bool {
	return r.ErrCode == constants.WechatClientOK
}

// Canceled 是否为用户取消
func (r ClientResp) Canceled() bool {
	return r.ErrCode == constants.WechatClientCanceled
}
