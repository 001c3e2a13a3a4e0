package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/wepay-next/internal/constants"
	"github.com/wepay-next/internal/logger"
	"github.com/wepay-next/internal/models"
	"github.com/wepay-next/internal/payment/alipay"
	"github.com/wepay-next/internal/payment/wechat"
)

var (
	ErrAttemptInFlight   = errors.New("pay attempt already in flight")
	ErrInvokerMissing    = errors.New("pay invoker missing")
	ErrWechatUnavailable = errors.New("wechat client not installed or unsupported")
)

// AlipayInvoker 调起支付宝客户端的外部协作方：输入已签名的请求串，
// 同步阻塞到客户端返回键值对结果。
type AlipayInvoker interface {
	Invoke(ctx context.Context, signedOrder string) (map[string]string, error)
}

// WechatInvoker 调起微信客户端的外部协作方。客户端回调是异步的，
// 结果经一次性通道交还编排器。
type WechatInvoker interface {
	// Available 微信客户端是否已安装且版本支持支付
	Available() bool
	Invoke(ctx context.Context, req *wechat.PayReq) (<-chan wechat.ClientResp, error)
}

// PayService 支付编排器。同一实例同时只允许一次支付尝试：
// paying 标志在工作 goroutine 启动前置位，所有退出路径上清除。
// 不支持中途取消，一次尝试要么成功要么失败，依赖传输层超时兜底。
type PayService struct {
	alipayInvoker AlipayInvoker
	wechatInvoker WechatInvoker
	httpClient    *http.Client
	gatewayURL    string
	dispatcher    Dispatcher
	paying        atomic.Bool
}

// Option 编排器可选配置
type Option func(*PayService)

// WithHTTPClient 指定统一下单使用的 HTTP 客户端
func WithHTTPClient(client *http.Client) Option {
	return func(s *PayService) { s.httpClient = client }
}

// WithUnifiedOrderURL 指定统一下单网关地址，测试时指向本地桩
func WithUnifiedOrderURL(gatewayURL string) Option {
	return func(s *PayService) { s.gatewayURL = gatewayURL }
}

// NewPayService 创建支付编排器
func NewPayService(alipayInvoker AlipayInvoker, wechatInvoker WechatInvoker, dispatcher Dispatcher, options ...Option) *PayService {
	s := &PayService{
		alipayInvoker: alipayInvoker,
		wechatInvoker: wechatInvoker,
		dispatcher:    dispatcher,
		gatewayURL:    wechat.UnifiedOrderURL,
	}
	for _, option := range options {
		option(s)
	}
	if s.dispatcher == nil {
		s.dispatcher = NewSerialDispatcher()
	}
	return s
}

// IsPaying 是否有支付尝试在途
func (s *PayService) IsPaying() bool {
	return s.paying.Load()
}

// PayByAlipay 发起支付宝支付。配置错误同步返回；在途时拒绝新的尝试；
// 未注册监听时请求被静默丢弃。其余一切结果经监听器异步交付。
func (s *PayService) PayByAlipay(ctx context.Context, cfg *alipay.Config, order models.Order, listener PayStatusListener) error {
	if listener == nil {
		logger.Debugw("pay_alipay_skip_nil_listener", "out_trade_no", order.OutTradeNo)
		return nil
	}
	if err := alipay.ValidateConfig(cfg); err != nil {
		return err
	}
	if err := order.Validate(); err != nil {
		return err
	}
	if s.alipayInvoker == nil {
		return fmt.Errorf("%w: alipay", ErrInvokerMissing)
	}
	if !s.paying.CompareAndSwap(false, true) {
		logger.Debugw("pay_alipay_reject_in_flight", "out_trade_no", order.OutTradeNo)
		return ErrAttemptInFlight
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.runAlipay(ctx, cfg, order, listener)
	return nil
}

func (s *PayService) runAlipay(ctx context.Context, cfg *alipay.Config, order models.Order, listener PayStatusListener) {
	defer s.paying.Store(false)

	signedOrder, err := alipay.BuildSignedOrder(cfg, order)
	if err != nil {
		logger.Warnw("pay_alipay_sign_failed", "out_trade_no", order.OutTradeNo, "error", err)
		s.deliverFailed(listener, order, constants.PayProviderAlipay, AlipayOutcome{Err: err})
		return
	}

	rawResult, err := s.alipayInvoker.Invoke(ctx, signedOrder)
	if err != nil {
		logger.Warnw("pay_alipay_invoke_failed", "out_trade_no", order.OutTradeNo, "error", err)
		s.deliverFailed(listener, order, constants.PayProviderAlipay, AlipayOutcome{Err: err})
		return
	}

	result := alipay.ParsePayResult(rawResult)
	if result.Succeeded() {
		// 同步结果仅作为支付结束的通知，真实到账以服务端异步通知为准
		s.deliverSucceed(listener, order, constants.PayProviderAlipay, AlipayOutcome{Result: result})
		return
	}
	logger.Infow("pay_alipay_rejected", "out_trade_no", order.OutTradeNo, "result_status", result.ResultStatus)
	s.deliverFailed(listener, order, constants.PayProviderAlipay, AlipayOutcome{Result: result})
}

// PayByWechat 发起微信支付。配置错误同步返回；微信客户端不可用时
// 在任何网络调用前即以失败回调短路；统一下单、二次签名与客户端回调
// 全部在后台工作 goroutine 内完成。
func (s *PayService) PayByWechat(ctx context.Context, cfg *wechat.Config, order models.Order, listener PayStatusListener) error {
	if listener == nil {
		logger.Debugw("pay_wechat_skip_nil_listener", "out_trade_no", order.OutTradeNo)
		return nil
	}
	if err := wechat.ValidateConfig(cfg); err != nil {
		return err
	}
	if err := order.Validate(); err != nil {
		return err
	}
	if s.wechatInvoker == nil {
		return fmt.Errorf("%w: wechat", ErrInvokerMissing)
	}
	if !s.wechatInvoker.Available() {
		logger.Warnw("pay_wechat_client_unavailable", "out_trade_no", order.OutTradeNo)
		s.deliverFailed(listener, order, constants.PayProviderWechat, WechatOutcome{Err: ErrWechatUnavailable})
		return nil
	}
	if !s.paying.CompareAndSwap(false, true) {
		logger.Debugw("pay_wechat_reject_in_flight", "out_trade_no", order.OutTradeNo)
		return ErrAttemptInFlight
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.runWechat(ctx, cfg, order, listener)
	return nil
}

func (s *PayService) runWechat(ctx context.Context, cfg *wechat.Config, order models.Order, listener PayStatusListener) {
	defer s.paying.Store(false)

	req, err := wechat.BuildUnifiedOrder(cfg, order)
	if err != nil {
		logger.Warnw("pay_wechat_sign_failed", "out_trade_no", order.OutTradeNo, "error", err)
		s.deliverFailed(listener, order, constants.PayProviderWechat, WechatOutcome{Err: err})
		return
	}

	resp, err := wechat.PostUnifiedOrder(ctx, s.httpClient, s.gatewayURL, req)
	if err != nil {
		logger.Warnw("pay_wechat_unified_order_failed", "out_trade_no", order.OutTradeNo, "error", err)
		s.deliverFailed(listener, order, constants.PayProviderWechat, WechatOutcome{Err: err})
		return
	}
	if !resp.HasPrepayID() {
		logger.Infow("pay_wechat_unified_order_rejected", "out_trade_no", order.OutTradeNo, "return_code", resp.ReturnCode)
		s.deliverFailed(listener, order, constants.PayProviderWechat, WechatOutcome{UnifiedOrder: resp})
		return
	}

	payReq, err := resp.ToSignedPayReq(cfg)
	if err != nil {
		s.deliverFailed(listener, order, constants.PayProviderWechat, WechatOutcome{UnifiedOrder: resp, Err: err})
		return
	}

	clientRespCh, err := s.wechatInvoker.Invoke(ctx, payReq)
	if err != nil {
		logger.Warnw("pay_wechat_invoke_failed", "out_trade_no", order.OutTradeNo, "error", err)
		s.deliverFailed(listener, order, constants.PayProviderWechat, WechatOutcome{UnifiedOrder: resp, Err: err})
		return
	}

	select {
	case clientResp := <-clientRespCh:
		outcome := WechatOutcome{UnifiedOrder: resp, Client: &clientResp}
		if clientResp.Succeeded() {
			s.deliverSucceed(listener, order, constants.PayProviderWechat, outcome)
			return
		}
		logger.Infow("pay_wechat_client_rejected", "out_trade_no", order.OutTradeNo, "err_code", clientResp.ErrCode)
		s.deliverFailed(listener, order, constants.PayProviderWechat, outcome)
	case <-ctx.Done():
		s.deliverFailed(listener, order, constants.PayProviderWechat, WechatOutcome{UnifiedOrder: resp, Err: ctx.Err()})
	}
}

func (s *PayService) deliverSucceed(listener PayStatusListener, order models.Order, provider string, outcome Outcome) {
	s.dispatcher.Post(func() {
		listener.OnPaySucceed(order, provider, outcome)
	})
}

func (s *PayService) deliverFailed(listener PayStatusListener, order models.Order, provider string, outcome Outcome) {
	s.dispatcher.Post(func() {
		listener.OnPayFailed(order, provider, outcome)
	})
}
