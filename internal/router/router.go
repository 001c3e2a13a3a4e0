package router

import (
	"github.com/wepay-next/internal/config"
	"github.com/wepay-next/internal/http/handlers"
	"github.com/wepay-next/internal/logger"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, handler *handlers.Handler) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		pay := apiV1.Group("/pay")
		{
			pay.POST("/alipay", handler.CreateAlipayOrder)
			pay.POST("/alipay/auth", handler.CreateAlipayAuthInfo)
			pay.POST("/wechat", handler.CreateWechatOrder)
		}
	}

	return r
}
