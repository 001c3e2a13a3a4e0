package constants

// 支付渠道常量
const (
	PayProviderAlipay = "alipay"
	PayProviderWechat = "wechat"
)

// 支付宝客户端同步返回状态码
const (
	AlipayStatusSuccess  = "9000"
	AlipayStatusCanceled = "6001"
)

// 微信客户端回调错误码
const (
	WechatClientOK       = 0
	WechatClientError    = -1
	WechatClientCanceled = -2
)

// 订单默认值
const (
	DefaultOrderTimeoutMinutes = 30
	OutTradeNoLength           = 15
)
