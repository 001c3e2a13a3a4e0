package config

import (
	"fmt"
	"strings"

	"github.com/wepay-next/internal/logger"
	"github.com/wepay-next/internal/payment/alipay"
	"github.com/wepay-next/internal/payment/wechat"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Order  OrderConfig  `mapstructure:"order"`
	Alipay AlipayConfig `mapstructure:"alipay"`
	Wechat WechatConfig `mapstructure:"wechat"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// OrderConfig 订单配置
type OrderConfig struct {
	TimeoutMinutes int `mapstructure:"timeout_minutes"`
}

// AlipayConfig 支付宝渠道配置。PrivateKey 为商户 RSA 私钥，
// 属敏感信息，不得写入日志或对外序列化。
type AlipayConfig struct {
	AppID      string `mapstructure:"app_id"`
	PrivateKey string `mapstructure:"private_key"`
	UseRSA2    bool   `mapstructure:"use_rsa2"`
	PartnerID  string `mapstructure:"partner_id"`
	TargetID   string `mapstructure:"target_id"`
}

// ToPaymentConfig 转换为支付宝渠道配置
func (c AlipayConfig) ToPaymentConfig() *alipay.Config {
	return &alipay.Config{
		AppID:      c.AppID,
		PrivateKey: c.PrivateKey,
		UseRSA2:    c.UseRSA2,
	}
}

// ToAuthConfig 转换为支付宝授权配置
func (c AlipayConfig) ToAuthConfig() *alipay.AuthConfig {
	return &alipay.AuthConfig{
		Config:    *c.ToPaymentConfig(),
		PartnerID: c.PartnerID,
		TargetID:  c.TargetID,
	}
}

// WechatConfig 微信渠道配置。AppSecret 为商户 API 密钥，
// 属敏感信息，不得写入日志或对外序列化。
type WechatConfig struct {
	AppID      string `mapstructure:"app_id"`
	AppSecret  string `mapstructure:"app_secret"`
	MerchantID string `mapstructure:"merchant_id"`
	NotifyURL  string `mapstructure:"notify_url"`
	SignType   string `mapstructure:"sign_type"` // MD5 / HMAC-SHA256
}

// ToPaymentConfig 转换为微信渠道配置
func (c WechatConfig) ToPaymentConfig() *wechat.Config {
	return &wechat.Config{
		AppID:      c.AppID,
		AppSecret:  c.AppSecret,
		MerchantID: c.MerchantID,
		NotifyURL:  c.NotifyURL,
		SignType:   c.SignType,
	}
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("./")    // 备用路径
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	// 设置默认值（可选）
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("order.timeout_minutes", 30)
	viper.SetDefault("alipay.app_id", "")
	viper.SetDefault("alipay.private_key", "")
	viper.SetDefault("alipay.use_rsa2", true)
	viper.SetDefault("alipay.partner_id", "")
	viper.SetDefault("alipay.target_id", "")
	viper.SetDefault("wechat.app_id", "")
	viper.SetDefault("wechat.app_secret", "")
	viper.SetDefault("wechat.merchant_id", "")
	viper.SetDefault("wechat.notify_url", "")
	viper.SetDefault("wechat.sign_type", "MD5")

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}
