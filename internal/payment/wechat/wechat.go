package wechat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("wechat config invalid")
	ErrEmptyParams     = errors.New("wechat sign params empty")
	ErrSignGenerate    = errors.New("wechat sign generate failed")
	ErrUnsigned        = errors.New("wechat request is not signed")
	ErrRequestFailed   = errors.New("wechat request failed")
	ErrResponseInvalid = errors.New("wechat response invalid")
	ErrNoPrepayID      = errors.New("wechat response has no usable prepay_id")
)

// 微信 v2 签名类型
const (
	SignTypeMD5        = "MD5"
	SignTypeHMACSHA256 = "HMAC-SHA256"
)

// UnifiedOrderURL 统一下单接口地址
const UnifiedOrderURL = "https://api.mch.weixin.qq.com/pay/unifiedorder"

const defaultTimeout = 10 * time.Second

// Config 微信 APP 支付（v2 协议）配置。
// AppSecret 即商户 API 密钥，参与键控签名；
// SignType 支持 MD5 与 HMAC-SHA256，默认为 MD5。
// 配置启动时构造一次，之后只读；密钥不允许写入日志。
type Config struct {
	AppID      string `json:"app_id"`
	AppSecret  string `json:"app_secret"`
	MerchantID string `json:"merchant_id"`
	NotifyURL  string `json:"notify_url"`
	SignType   string `json:"sign_type"`
}

// ParseConfig 解析配置
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty config", ErrConfigInvalid)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal config failed", ErrConfigInvalid)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config failed", ErrConfigInvalid)
	}
	cfg.normalize()
	return &cfg, nil
}

// ValidateConfig 校验配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.AppID) == "" {
		return fmt.Errorf("%w: app_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.AppSecret) == "" {
		return fmt.Errorf("%w: app_secret is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.MerchantID) == "" {
		return fmt.Errorf("%w: merchant_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.NotifyURL) == "" {
		return fmt.Errorf("%w: notify_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.NotifyURL)); err != nil {
		return fmt.Errorf("%w: notify_url is invalid", ErrConfigInvalid)
	}
	switch cfg.SignType {
	case SignTypeMD5, SignTypeHMACSHA256:
	default:
		return fmt.Errorf("%w: sign_type %s is not supported", ErrConfigInvalid, cfg.SignType)
	}
	return nil
}

func (c *Config) normalize() {
	c.AppID = strings.TrimSpace(c.AppID)
	c.AppSecret = strings.TrimSpace(c.AppSecret)
	c.MerchantID = strings.TrimSpace(c.MerchantID)
	c.NotifyURL = strings.TrimSpace(c.NotifyURL)
	c.SignType = strings.ToUpper(strings.TrimSpace(c.SignType))
	if c.SignType == "" {
		c.SignType = SignTypeMD5
	}
}

// PostUnifiedOrder 提交统一下单请求并解析回复。
// req 必须已签名；client 为 nil 时使用带 10 秒超时的默认客户端。
func PostUnifiedOrder(ctx context.Context, client *http.Client, gatewayURL string, req *UnifiedOrderReq) (*UnifiedOrderResp, error) {
	body, err := req.ToXML()
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if strings.TrimSpace(gatewayURL) == "" {
		gatewayURL = UnifiedOrderURL
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, gatewayURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	httpReq.Header.Set("Content-Type", "application/xml")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: http request failed: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrResponseInvalid, resp.StatusCode)
	}
	return ParseUnifiedOrderResp(respBody)
}
