package alipay

import (
	"strings"

	"github.com/wepay-next/internal/constants"
)

// PayResult 支付宝客户端同步返回。
// resultStatus 为 9000 时代表支付成功，6001 代表用户主动取消；
// 同步结果仅作为支付结束的通知，真实到账以服务端异步通知为准。
type PayResult struct {
	ResultStatus string
	Result       string
	Memo         string
}

// ParsePayResult 从客户端返回的键值对中提取同步结果
func ParsePayResult(raw map[string]string) PayResult {
	var result PayResult
	for key, value := range raw {
		switch key {
		case "resultStatus":
			result.ResultStatus = value
		case "result":
			result.Result = value
		case "memo":
			result.Memo = value
		}
	}
	return result
}

// Succeeded 同步结果是否为支付成功
func (r PayResult) Succeeded() bool {
	return r.ResultStatus == constants.AlipayStatusSuccess
}

// Canceled 是否为用户主动取消
func (r PayResult) Canceled() bool {
	return r.ResultStatus == constants.AlipayStatusCanceled
}

// AuthResult 支付宝账户授权返回。result 字段为 & 分隔的类查询串，
// 其中的值可能带有成对引号。
type AuthResult struct {
	ResultStatus string
	Result       string
	Memo         string
	ResultCode   string
	AuthCode     string
	AlipayOpenID string
}

// ParseAuthResult 解析授权返回；removeQuotes 为 true 时去除值两侧引号
func ParseAuthResult(raw map[string]string, removeQuotes bool) AuthResult {
	result := AuthResult{}
	for key, value := range raw {
		switch key {
		case "resultStatus":
			result.ResultStatus = value
		case "result":
			result.Result = value
		case "memo":
			result.Memo = value
		}
	}
	for _, pair := range strings.Split(result.Result, "&") {
		switch {
		case strings.HasPrefix(pair, "alipay_open_id="):
			result.AlipayOpenID = stripQuotes(strings.TrimPrefix(pair, "alipay_open_id="), removeQuotes)
		case strings.HasPrefix(pair, "auth_code="):
			result.AuthCode = stripQuotes(strings.TrimPrefix(pair, "auth_code="), removeQuotes)
		case strings.HasPrefix(pair, "result_code="):
			result.ResultCode = stripQuotes(strings.TrimPrefix(pair, "result_code="), removeQuotes)
		}
	}
	return result
}

// Succeeded 授权同步结果是否成功
func (r AuthResult) Succeeded() bool {
	return r.ResultStatus == constants.AlipayStatusSuccess && r.ResultCode == "200"
}

func stripQuotes(value string, remove bool) string {
	if !remove {
		return value
	}
	value = strings.TrimPrefix(value, `"`)
	return strings.TrimSuffix(value, `"`)
}
