package handlers

import (
	"errors"

	"github.com/wepay-next/internal/http/response"
	"github.com/wepay-next/internal/logger"
	"github.com/wepay-next/internal/models"
	"github.com/wepay-next/internal/payment/alipay"
	"github.com/wepay-next/internal/payment/wechat"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	UserID         string `json:"user_id"`
	OutTradeNo     string `json:"out_trade_no"`
	Price          int64  `json:"price" binding:"required"` // 最小货币单位（分）
	Subject        string `json:"subject" binding:"required"`
	Description    string `json:"description"`
	TimeoutMinutes int    `json:"timeout_minutes"`
}

func (r CreateOrderRequest) toOrder() models.Order {
	outTradeNo := r.OutTradeNo
	if outTradeNo == "" {
		outTradeNo = models.NewOutTradeNo()
	}
	order := models.NewOrder(r.UserID, outTradeNo, r.Price, r.Subject, r.Description)
	if r.TimeoutMinutes > 0 {
		order.TimeoutMinutes = r.TimeoutMinutes
	}
	return order
}

// CreateAlipayOrder 构造已签名的支付宝支付请求串
func (h *Handler) CreateAlipayOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	order := req.toOrder()

	cfg := h.Cfg.Alipay.ToPaymentConfig()
	signedOrder, err := alipay.BuildSignedOrder(cfg, order)
	if err != nil {
		if errors.Is(err, alipay.ErrConfigInvalid) {
			response.BadRequest(c, "支付宝渠道未配置")
			return
		}
		logger.Errorw("alipay_order_sign_failed", "out_trade_no", order.OutTradeNo, "error", err)
		response.Error(c, response.CodeInternal, "订单签名失败")
		return
	}

	response.Success(c, gin.H{
		"out_trade_no": order.OutTradeNo,
		"order_info":   signedOrder,
		"sign_type":    cfg.SignType(),
	})
}

// CreateAlipayAuthInfo 构造已签名的支付宝授权请求串
func (h *Handler) CreateAlipayAuthInfo(c *gin.Context) {
	cfg := h.Cfg.Alipay.ToAuthConfig()
	authInfo, err := alipay.BuildSignedAuthInfo(cfg)
	if err != nil {
		if errors.Is(err, alipay.ErrConfigInvalid) {
			response.BadRequest(c, "支付宝授权未配置")
			return
		}
		logger.Errorw("alipay_auth_sign_failed", "error", err)
		response.Error(c, response.CodeInternal, "授权签名失败")
		return
	}

	response.Success(c, gin.H{
		"auth_info": authInfo,
		"sign_type": cfg.SignType(),
	})
}

// CreateWechatOrder 统一下单并返回调起微信客户端所需的支付参数
func (h *Handler) CreateWechatOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	order := req.toOrder()

	cfg := h.Cfg.Wechat.ToPaymentConfig()
	unifiedReq, err := wechat.BuildUnifiedOrder(cfg, order)
	if err != nil {
		if errors.Is(err, wechat.ErrConfigInvalid) {
			response.BadRequest(c, "微信渠道未配置")
			return
		}
		logger.Errorw("wechat_order_sign_failed", "out_trade_no", order.OutTradeNo, "error", err)
		response.Error(c, response.CodeInternal, "订单签名失败")
		return
	}

	resp, err := wechat.PostUnifiedOrder(c.Request.Context(), h.HTTPClient, h.GatewayURL, unifiedReq)
	if err != nil {
		logger.Errorw("wechat_unified_order_failed", "out_trade_no", order.OutTradeNo, "error", err)
		response.Error(c, response.CodeInternal, "统一下单失败")
		return
	}
	if !resp.HasPrepayID() {
		msg := "统一下单被拒绝"
		if resp.FailReturn != nil && resp.FailReturn.ReturnMsg != "" {
			msg = resp.FailReturn.ReturnMsg
		} else if resp.SuccessReturn != nil && resp.SuccessReturn.FailResult != nil {
			msg = resp.SuccessReturn.FailResult.ErrCodeDes
		}
		logger.Warnw("wechat_unified_order_rejected",
			"out_trade_no", order.OutTradeNo,
			"return_code", resp.ReturnCode,
		)
		response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{
			"out_trade_no": order.OutTradeNo,
		})
		return
	}

	payReq, err := resp.ToSignedPayReq(cfg)
	if err != nil {
		logger.Errorw("wechat_payreq_sign_failed", "out_trade_no", order.OutTradeNo, "error", err)
		response.Error(c, response.CodeInternal, "支付参数签名失败")
		return
	}

	response.Success(c, gin.H{
		"out_trade_no": order.OutTradeNo,
		"appid":        payReq.AppID,
		"partnerid":    payReq.PartnerID,
		"prepayid":     payReq.PrepayID,
		"package":      payReq.Package,
		"noncestr":     payReq.NonceStr,
		"timestamp":    payReq.Timestamp,
		"sign":         payReq.Sign,
	})
}
