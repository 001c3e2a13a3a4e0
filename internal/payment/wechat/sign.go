package wechat

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// SignParams 微信 v2 键控签名：剔除空值与 sign/key 字段后将参数按 key
// 升序拼接为 k=v&...，追加 key=<secret>，按签名类型取 MD5 或以 secret 为
// 密钥的 HMAC-SHA256 摘要，输出大写十六进制。
// 排序与过滤规则必须严格一致，任何偏差都会被网关判定为验签失败。
func SignParams(params map[string]string, signType, secret string) (string, error) {
	if len(params) == 0 {
		return "", ErrEmptyParams
	}
	if strings.TrimSpace(secret) == "" {
		return "", fmt.Errorf("%w: secret is empty", ErrSignGenerate)
	}
	content := signContent(params) + "&key=" + secret

	var digest []byte
	switch strings.ToUpper(strings.TrimSpace(signType)) {
	case SignTypeMD5, "":
		sum := md5.Sum([]byte(content))
		digest = sum[:]
	case SignTypeHMACSHA256:
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(content))
		digest = mac.Sum(nil)
	default:
		return "", fmt.Errorf("%w: sign_type %s is not supported", ErrSignGenerate, signType)
	}
	return strings.ToUpper(hex.EncodeToString(digest)), nil
}

func signContent(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if key == "sign" || key == "key" || value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	return strings.Join(pairs, "&")
}

// NewNonce 生成 32 位十六进制随机串
func NewNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
