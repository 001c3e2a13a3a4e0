package handlers

import (
	"net/http"

	"github.com/wepay-next/internal/config"
	"github.com/wepay-next/internal/payment/wechat"
)

// Handler 支付接口处理器
type Handler struct {
	Cfg *config.Config

	// HTTPClient 与 GatewayURL 供统一下单使用，零值时走默认网关
	HTTPClient *http.Client
	GatewayURL string
}

// New 创建处理器
func New(cfg *config.Config) *Handler {
	return &Handler{
		Cfg:        cfg,
		GatewayURL: wechat.UnifiedOrderURL,
	}
}
