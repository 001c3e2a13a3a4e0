package alipay

import (
	"fmt"
	"strings"
)

// AuthConfig 支付宝账户授权配置。
// PartnerID 为商户签约拿到的 pid，TargetID 为商户唯一标识。
type AuthConfig struct {
	Config
	PartnerID string `json:"partner_id"`
	TargetID  string `json:"target_id"`
}

// ValidateAuthConfig 校验授权配置完整性
func ValidateAuthConfig(cfg *AuthConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if err := ValidateConfig(&cfg.Config); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.PartnerID) == "" {
		return fmt.Errorf("%w: partner_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.TargetID) == "" {
		return fmt.Errorf("%w: target_id is required", ErrConfigInvalid)
	}
	return nil
}

// BuildSignedAuthInfo 构造并签名账户授权请求串，参数集与签名方式
// 与支付请求一致，其中接口名、产品码等为协议固定值。
func BuildSignedAuthInfo(cfg *AuthConfig) (string, error) {
	if err := ValidateAuthConfig(cfg); err != nil {
		return "", err
	}
	params := map[string]string{
		"app_id":     cfg.AppID,
		"pid":        cfg.PartnerID,
		"apiname":    "com.alipay.account.auth",
		"app_name":   "mc",
		"biz_type":   "openservice",
		"product_id": "APP_FAST_LOGIN",
		"scope":      "kuaijie",
		"target_id":  cfg.TargetID,
		"auth_type":  "AUTHACCOUNT",
		"sign_type":  cfg.SignType(),
	}
	return signParams(&cfg.Config, params)
}
