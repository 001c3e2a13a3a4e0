package wechat

import (
	"sort"
	"strings"

	"github.com/wepay-next/internal/models"
)

const (
	wechatTimeLayout = "20060102150405" // yyyyMMddHHmmss

	deviceInfoWeb = "WEB"
	feeTypeCNY    = "CNY"
	tradeTypeApp  = "APP"
)

// UnifiedOrderReq 统一下单请求体。必填字段为 AppID、MchID、NonceStr、
// Body、OutTradeNo、TotalFee、SpbillCreateIP、NotifyURL、TradeType 与
// Sign，其余字段为空时不参与签名也不输出到 XML。
type UnifiedOrderReq struct {
	AppID          string
	MchID          string
	DeviceInfo     string
	NonceStr       string
	Sign           string
	SignType       string
	Body           string
	Detail         string
	Attach         string
	OutTradeNo     string
	FeeType        string
	TotalFee       string
	SpbillCreateIP string
	TimeStart      string
	TimeExpire     string
	GoodsTag       string
	NotifyURL      string
	TradeType      string
	LimitPay       string
	SceneInfo      string
}

// BuildUnifiedOrder 将订单映射为已签名的统一下单请求。
// 订单金额以分为单位原样传递；失效时间为创建时间加超时分钟数。
func BuildUnifiedOrder(cfg *Config, order models.Order) (*UnifiedOrderReq, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	req := &UnifiedOrderReq{
		AppID:          cfg.AppID,
		MchID:          cfg.MerchantID,
		DeviceInfo:     deviceInfoWeb,
		NonceStr:       NewNonce(),
		SignType:       cfg.SignType,
		Body:           order.Subject,
		Detail:         order.Description,
		OutTradeNo:     order.OutTradeNo,
		FeeType:        feeTypeCNY,
		TotalFee:       order.ToWechatFee(),
		SpbillCreateIP: LocalIPv4(),
		TimeStart:      order.CreatedAt.Format(wechatTimeLayout),
		TimeExpire:     order.ExpireAt().Format(wechatTimeLayout),
		NotifyURL:      cfg.NotifyURL,
		TradeType:      tradeTypeApp,
	}
	sign, err := SignParams(req.params(), cfg.SignType, cfg.AppSecret)
	if err != nil {
		return nil, err
	}
	req.Sign = sign
	return req, nil
}

func (r *UnifiedOrderReq) params() map[string]string {
	params := map[string]string{
		"appid":            r.AppID,
		"mch_id":           r.MchID,
		"device_info":      r.DeviceInfo,
		"nonce_str":        r.NonceStr,
		"sign_type":        r.SignType,
		"body":             r.Body,
		"detail":           r.Detail,
		"attach":           r.Attach,
		"out_trade_no":     r.OutTradeNo,
		"fee_type":         r.FeeType,
		"total_fee":        r.TotalFee,
		"spbill_create_ip": r.SpbillCreateIP,
		"time_start":       r.TimeStart,
		"time_expire":      r.TimeExpire,
		"goods_tag":        r.GoodsTag,
		"notify_url":       r.NotifyURL,
		"trade_type":       r.TradeType,
		"limit_pay":        r.LimitPay,
		"scene_info":       r.SceneInfo,
	}
	for key, value := range params {
		if value == "" {
			delete(params, key)
		}
	}
	return params
}

// ToXML 将已签名的请求序列化为 XML：字段按 key 升序逐个输出，
// 值做 & < > 转义，sign 元素固定在末尾。未签名的请求不允许序列化。
func (r *UnifiedOrderReq) ToXML() (string, error) {
	if strings.TrimSpace(r.Sign) == "" {
		return "", ErrUnsigned
	}
	params := r.params()
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<xml>\n")
	for _, key := range keys {
		b.WriteString("<" + key + ">" + escapeXML(params[key]) + "</" + key + ">\n")
	}
	b.WriteString("<sign>" + r.Sign + "</sign>\n")
	b.WriteString("</xml>\n")
	return b.String(), nil
}

func escapeXML(value string) string {
	value = strings.ReplaceAll(value, "&", "&amp;")
	value = strings.ReplaceAll(value, "<", "&lt;")
	return strings.ReplaceAll(value, ">", "&gt;")
}
