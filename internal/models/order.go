package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/wepay-next/internal/constants"

	"github.com/shopspring/decimal"
)

var ErrOrderInvalid = errors.New("order invalid")

const outTradeNoTimeLayout = "0102150405" // MMddHHmmss

// Order 支付订单信息。
// OutTradeNo 由商户定义，要求在商户维度全局唯一；
// PriceMinorUnits 以最小货币单位（分）计价；
// Tag 为应用内备注，不会提交给任何支付渠道。
type Order struct {
	UserID          string
	OutTradeNo      string
	PriceMinorUnits int64
	Subject         string
	Description     string
	CreatedAt       time.Time
	TimeoutMinutes  int
	Tag             interface{}
}

// NewOrder 创建订单，填充创建时间与默认超时
func NewOrder(userID, outTradeNo string, priceMinorUnits int64, subject, description string) Order {
	return Order{
		UserID:          userID,
		OutTradeNo:      outTradeNo,
		PriceMinorUnits: priceMinorUnits,
		Subject:         subject,
		Description:     description,
		CreatedAt:       time.Now(),
		TimeoutMinutes:  constants.DefaultOrderTimeoutMinutes,
	}
}

// Validate 校验订单必填项
func (o Order) Validate() error {
	if strings.TrimSpace(o.OutTradeNo) == "" {
		return fmt.Errorf("%w: out_trade_no is required", ErrOrderInvalid)
	}
	if o.PriceMinorUnits < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrOrderInvalid)
	}
	if strings.TrimSpace(o.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrOrderInvalid)
	}
	return nil
}

// Timeout 返回订单超时时间，未设置时取默认值
func (o Order) Timeout() int {
	if o.TimeoutMinutes <= 0 {
		return constants.DefaultOrderTimeoutMinutes
	}
	return o.TimeoutMinutes
}

// ExpireAt 返回订单失效时刻
func (o Order) ExpireAt() time.Time {
	return o.CreatedAt.Add(time.Duration(o.Timeout()) * time.Minute)
}

// ToAliPrice 将分转换为支付宝的元金额串，如 123 -> "1.23"、100 -> "1.0"
func (o Order) ToAliPrice() string {
	price := decimal.NewFromInt(o.PriceMinorUnits).Div(decimal.NewFromInt(100)).String()
	if !strings.Contains(price, ".") {
		price += ".0"
	}
	return price
}

// ToWechatFee 微信以分为单位，金额原样传递
func (o Order) ToWechatFee() string {
	return strconv.FormatInt(o.PriceMinorUnits, 10)
}

// NewOutTradeNo 生成商户订单号：10 位时间戳（MMddHHmmss）+ 5 位随机数字，固定 15 位。
// 同一秒内的唯一性由随机后缀保证。
func NewOutTradeNo() string {
	key := time.Now().Format(outTradeNoTimeLayout)
	suffix, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		suffix = big.NewInt(time.Now().UnixNano() % 100000)
	}
	key = fmt.Sprintf("%s%05d", key, suffix.Int64())
	return key[:constants.OutTradeNoLength]
}
