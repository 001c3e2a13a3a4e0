package service

import (
	"github.com/wepay-next/internal/constants"
	"github.com/wepay-next/internal/models"
	"github.com/wepay-next/internal/payment/alipay"
	"github.com/wepay-next/internal/payment/wechat"
)

// Outcome 按渠道区分的结果载荷。具体类型为 AlipayOutcome 或
// WechatOutcome，调用方按渠道做类型断言取出强类型字段。
type Outcome interface {
	Provider() string
}

// AlipayOutcome 支付宝渠道结果：成功与业务失败时携带客户端同步返回，
// 签名或调起失败时携带 Err。
type AlipayOutcome struct {
	Result alipay.PayResult
	Err    error
}

// Provider 返回渠道标识
func (AlipayOutcome) Provider() string { return constants.PayProviderAlipay }

// WechatOutcome 微信渠道结果：统一下单失败时携带 UnifiedOrder，
// 客户端回调后携带 Client，签名或传输失败时携带 Err。
type WechatOutcome struct {
	UnifiedOrder *wechat.UnifiedOrderResp
	Client       *wechat.ClientResp
	Err          error
}

// Provider 返回渠道标识
func (WechatOutcome) Provider() string { return constants.PayProviderWechat }

// PayStatusListener 支付状态回调。每次支付尝试恰好收到一次回调，
// 且总是在会话的投递器上执行，而不是后台工作 goroutine。
type PayStatusListener interface {
	OnPaySucceed(order models.Order, provider string, outcome Outcome)
	OnPayFailed(order models.Order, provider string, outcome Outcome)
}
