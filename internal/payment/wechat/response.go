package wechat

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// 微信返回码
const (
	ReturnCodeSuccess = "SUCCESS"
	ReturnCodeFail    = "FAIL"
)

// 微信业务错误码（err_code）。网关可能返回此集合之外的码，
// 未知码按原样透传，不视为解析错误。
const (
	ErrCodeNoAuth            = "NOAUTH"
	ErrCodeNotEnough         = "NOTENOUGH"
	ErrCodeOrderPaid         = "ORDERPAID"
	ErrCodeOrderClosed       = "ORDERCLOSED"
	ErrCodeSystemError       = "SYSTEMERROR"
	ErrCodeAppIDNotExist     = "APPID_NOT_EXIST"
	ErrCodeMchIDNotExist     = "MCHID_NOT_EXIST"
	ErrCodeAppIDMchIDNoMatch = "APPID_MCHID_NOT_MATCH"
	ErrCodeLackParams        = "LACK_PARAMS"
	ErrCodeOutTradeNoUsed    = "OUT_TRADE_NO_USED"
	ErrCodeSignError         = "SIGNERROR"
	ErrCodeXMLFormatError    = "XML_FORMAT_ERROR"
	ErrCodeRequirePostMethod = "REQUIRE_POST_METHOD"
	ErrCodePostDataEmpty     = "POST_DATA_EMPTY"
	ErrCodeNotUTF8           = "NOT_UTF8"
)

// UnifiedOrderResp 统一下单回复。return_code 为 SUCCESS 时填充
// SuccessReturn，否则填充 FailReturn，两者有且仅有其一。
type UnifiedOrderResp struct {
	ReturnCode    string
	SuccessReturn *SuccessReturn
	FailReturn    *FailReturn
}

// SuccessReturn 通信成功分支。result_code 为 SUCCESS 时填充
// SuccessResult，否则填充 FailResult。
type SuccessReturn struct {
	AppID         string
	MchID         string
	DeviceInfo    string
	NonceStr      string
	Sign          string
	SuccessResult *SuccessResult
	FailResult    *FailResult
}

// SuccessResult 下单成功结果，PrepayID 用于后续调起客户端
type SuccessResult struct {
	TradeType string
	PrepayID  string
}

// FailResult 业务失败结果
type FailResult struct {
	ErrCode    string
	ErrCodeDes string
}

// FailReturn 通信失败分支
type FailReturn struct {
	ReturnMsg string
}

type unifiedOrderXML struct {
	XMLName    xml.Name `xml:"xml"`
	ReturnCode string   `xml:"return_code"`
	ReturnMsg  string   `xml:"return_msg"`
	AppID      string   `xml:"appid"`
	MchID      string   `xml:"mch_id"`
	DeviceInfo string   `xml:"device_info"`
	NonceStr   string   `xml:"nonce_str"`
	Sign       string   `xml:"sign"`
	ResultCode string   `xml:"result_code"`
	TradeType  string   `xml:"trade_type"`
	PrepayID   string   `xml:"prepay_id"`
	ErrCode    string   `xml:"err_code"`
	ErrCodeDes string   `xml:"err_code_des"`
}

// ParseUnifiedOrderResp 解析统一下单回复 XML
func ParseUnifiedOrderResp(body []byte) (*UnifiedOrderResp, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrResponseInvalid)
	}
	var flat unifiedOrderXML
	if err := xml.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("%w: decode xml failed: %v", ErrResponseInvalid, err)
	}

	resp := &UnifiedOrderResp{ReturnCode: strings.TrimSpace(flat.ReturnCode)}
	if !strings.EqualFold(resp.ReturnCode, ReturnCodeSuccess) {
		resp.FailReturn = &FailReturn{ReturnMsg: strings.TrimSpace(flat.ReturnMsg)}
		return resp, nil
	}

	successReturn := &SuccessReturn{
		AppID:      strings.TrimSpace(flat.AppID),
		MchID:      strings.TrimSpace(flat.MchID),
		DeviceInfo: strings.TrimSpace(flat.DeviceInfo),
		NonceStr:   strings.TrimSpace(flat.NonceStr),
		Sign:       strings.TrimSpace(flat.Sign),
	}
	if strings.EqualFold(strings.TrimSpace(flat.ResultCode), ReturnCodeSuccess) {
		successReturn.SuccessResult = &SuccessResult{
			TradeType: strings.TrimSpace(flat.TradeType),
			PrepayID:  strings.TrimSpace(flat.PrepayID),
		}
	} else {
		successReturn.FailResult = &FailResult{
			ErrCode:    strings.TrimSpace(flat.ErrCode),
			ErrCodeDes: strings.TrimSpace(flat.ErrCodeDes),
		}
	}
	resp.SuccessReturn = successReturn
	return resp, nil
}

// HasPrepayID 回复中是否携带可用的 prepay_id
func (r *UnifiedOrderResp) HasPrepayID() bool {
	return r.PrepayID() != ""
}

// PrepayID 返回回复中的 prepay_id，不存在时为空串
func (r *UnifiedOrderResp) PrepayID() string {
	if r == nil || r.SuccessReturn == nil || r.SuccessReturn.SuccessResult == nil {
		return ""
	}
	return r.SuccessReturn.SuccessResult.PrepayID
}
