package wechat

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/wepay-next/internal/models"
)

func buildTestConfig() *Config {
	return &Config{
		AppID:      "wx1234567890",
		AppSecret:  "192006250b4c09247ec02edce69f6a2d",
		MerchantID: "10000100",
		NotifyURL:  "https://example.com/api/v1/payments/callback",
		SignType:   SignTypeMD5,
	}
}

func buildTestOrder() models.Order {
	order := models.NewOrder("u1", "010212000112345", 123, "测试商品", "商品描述")
	order.CreatedAt = time.Date(2026, 8, 28, 12, 30, 0, 0, time.Local)
	order.TimeoutMinutes = 30
	return order
}

func TestParseConfigDefaultsToMD5(t *testing.T) {
	cfg, err := ParseConfig(map[string]interface{}{
		"app_id":      "wx1234567890",
		"app_secret":  "secret",
		"merchant_id": "10000100",
		"notify_url":  "https://example.com/callback",
	})
	if err != nil {
		t.Fatalf("parse config failed: %v", err)
	}
	if cfg.SignType != SignTypeMD5 {
		t.Fatalf("expected default sign_type MD5, got %s", cfg.SignType)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("validate config failed: %v", err)
	}
}

func TestValidateConfigRejectsBadInput(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.AppID = "" },
		func(c *Config) { c.AppSecret = "" },
		func(c *Config) { c.MerchantID = "" },
		func(c *Config) { c.NotifyURL = "" },
		func(c *Config) { c.NotifyURL = "not a url" },
		func(c *Config) { c.SignType = "SHA1" },
	}
	for i, mutate := range cases {
		cfg := buildTestConfig()
		mutate(cfg)
		if err := ValidateConfig(cfg); !errors.Is(err, ErrConfigInvalid) {
			t.Fatalf("case %d: expected config invalid, got %v", i, err)
		}
	}
}

func TestBuildUnifiedOrder(t *testing.T) {
	cfg := buildTestConfig()
	order := buildTestOrder()

	req, err := BuildUnifiedOrder(cfg, order)
	if err != nil {
		t.Fatalf("build unified order failed: %v", err)
	}
	if req.AppID != cfg.AppID || req.MchID != cfg.MerchantID {
		t.Fatalf("unexpected identity fields: %s / %s", req.AppID, req.MchID)
	}
	if req.DeviceInfo != "WEB" || req.FeeType != "CNY" || req.TradeType != "APP" {
		t.Fatalf("unexpected fixed fields: %s / %s / %s", req.DeviceInfo, req.FeeType, req.TradeType)
	}
	if req.TotalFee != "123" {
		t.Fatalf("unexpected total_fee: %s", req.TotalFee)
	}
	if req.TimeStart != "20260828123000" {
		t.Fatalf("unexpected time_start: %s", req.TimeStart)
	}
	if req.TimeExpire != "20260828130000" {
		t.Fatalf("unexpected time_expire: %s", req.TimeExpire)
	}
	if req.NonceStr == "" || len(req.NonceStr) != 32 {
		t.Fatalf("unexpected nonce: %s", req.NonceStr)
	}
	if req.SpbillCreateIP == "" {
		t.Fatalf("expected client ip")
	}

	// 签名必须在序列化前完成且可复核
	want, err := SignParams(req.params(), cfg.SignType, cfg.AppSecret)
	if err != nil {
		t.Fatalf("re-sign failed: %v", err)
	}
	if req.Sign != want {
		t.Fatalf("signature mismatch:\n got %s\nwant %s", req.Sign, want)
	}
}

func TestBuildUnifiedOrderRejectsInvalidInput(t *testing.T) {
	order := buildTestOrder()
	if _, err := BuildUnifiedOrder(&Config{}, order); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got %v", err)
	}

	order.Subject = ""
	if _, err := BuildUnifiedOrder(buildTestConfig(), order); !errors.Is(err, models.ErrOrderInvalid) {
		t.Fatalf("expected order invalid, got %v", err)
	}
}

func TestToXMLRequiresSignature(t *testing.T) {
	req := &UnifiedOrderReq{AppID: "wx1234567890"}
	if _, err := req.ToXML(); !errors.Is(err, ErrUnsigned) {
		t.Fatalf("expected unsigned error, got %v", err)
	}
}

func TestToXMLSortedEscapedSignLast(t *testing.T) {
	req := &UnifiedOrderReq{
		AppID:      "wx1234567890",
		MchID:      "10000100",
		NonceStr:   "nonce",
		Body:       "A&B <测试>",
		OutTradeNo: "010212000112345",
		TotalFee:   "123",
		Sign:       "ABCDEF0123456789",
	}
	body, err := req.ToXML()
	if err != nil {
		t.Fatalf("to xml failed: %v", err)
	}
	if !strings.HasPrefix(body, "<xml>\n") || !strings.HasSuffix(body, "</xml>\n") {
		t.Fatalf("unexpected envelope: %q", body)
	}
	if !strings.Contains(body, "<body>A&amp;B &lt;测试&gt;</body>") {
		t.Fatalf("expected escaped body, got %q", body)
	}

	// 元素按 key 升序，sign 固定在末尾
	tagPattern := regexp.MustCompile(`<([a-z_]+)>`)
	var tags []string
	for _, match := range tagPattern.FindAllStringSubmatch(body, -1) {
		if match[1] == "xml" {
			continue
		}
		tags = append(tags, match[1])
	}
	if len(tags) < 2 || tags[len(tags)-1] != "sign" {
		t.Fatalf("expected sign as last element, got %v", tags)
	}
	payload := tags[:len(tags)-1]
	for i := 1; i < len(payload); i++ {
		if payload[i-1] > payload[i] {
			t.Fatalf("elements out of order: %v", payload)
		}
	}
}

func TestToXMLOmitsEmptyFields(t *testing.T) {
	req := &UnifiedOrderReq{
		AppID: "wx1234567890",
		Sign:  "ABCDEF",
	}
	body, err := req.ToXML()
	if err != nil {
		t.Fatalf("to xml failed: %v", err)
	}
	if strings.Contains(body, "<attach>") || strings.Contains(body, "<detail>") {
		t.Fatalf("empty fields must not be serialized: %q", body)
	}
}
