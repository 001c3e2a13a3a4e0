package wechat

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func buildSuccessResp() *UnifiedOrderResp {
	return &UnifiedOrderResp{
		ReturnCode: ReturnCodeSuccess,
		SuccessReturn: &SuccessReturn{
			AppID:    "wx1234567890",
			MchID:    "10000100",
			NonceStr: "IITRi8Iabbblz1Jc",
			SuccessResult: &SuccessResult{
				TradeType: "APP",
				PrepayID:  "wx201411101639507cbf6ffd8b0779950874",
			},
		},
	}
}

func TestToSignedPayReq(t *testing.T) {
	cfg := buildTestConfig()
	resp := buildSuccessResp()

	before := time.Now().Unix()
	req, err := resp.ToSignedPayReq(cfg)
	if err != nil {
		t.Fatalf("build pay req failed: %v", err)
	}
	after := time.Now().Unix()

	if req.AppID != "wx1234567890" || req.PartnerID != "10000100" {
		t.Fatalf("unexpected identity fields: %s / %s", req.AppID, req.PartnerID)
	}
	if req.Package != "Sign=WXPay" {
		t.Fatalf("unexpected package: %s", req.Package)
	}
	if req.PrepayID != resp.PrepayID() {
		t.Fatalf("unexpected prepay_id: %s", req.PrepayID)
	}
	if len(req.NonceStr) != 32 {
		t.Fatalf("unexpected nonce: %s", req.NonceStr)
	}

	ts, err := strconv.ParseInt(req.Timestamp, 10, 64)
	if err != nil {
		t.Fatalf("timestamp is not numeric: %s", req.Timestamp)
	}
	if ts < before || ts > after {
		t.Fatalf("timestamp %d outside [%d, %d]", ts, before, after)
	}

	// 二次签名覆盖调起参数全集
	want, err := SignParams(map[string]string{
		"appid":     req.AppID,
		"partnerid": req.PartnerID,
		"package":   req.Package,
		"noncestr":  req.NonceStr,
		"timestamp": req.Timestamp,
		"prepayid":  req.PrepayID,
	}, cfg.SignType, cfg.AppSecret)
	if err != nil {
		t.Fatalf("re-sign failed: %v", err)
	}
	if req.Sign != want {
		t.Fatalf("signature mismatch:\n got %s\nwant %s", req.Sign, want)
	}
}

func TestToSignedPayReqRequiresPrepayID(t *testing.T) {
	resp := &UnifiedOrderResp{
		ReturnCode: ReturnCodeFail,
		FailReturn: &FailReturn{ReturnMsg: "appid参数长度有误"},
	}
	if _, err := resp.ToSignedPayReq(buildTestConfig()); !errors.Is(err, ErrNoPrepayID) {
		t.Fatalf("expected no prepay_id error, got %v", err)
	}
}

func TestToSignedPayReqRequiresConfig(t *testing.T) {
	if _, err := buildSuccessResp().ToSignedPayReq(&Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got %v", err)
	}
}

func TestClientRespClassification(t *testing.T) {
	ok := ClientResp{ErrCode: 0}
	if !ok.Succeeded() || ok.Canceled() {
		t.Fatalf("0 must classify as success")
	}
	canceled := ClientResp{ErrCode: -2, ErrStr: "用户取消"}
	if canceled.Succeeded() || !canceled.Canceled() {
		t.Fatalf("-2 must classify as canceled")
	}
	failed := ClientResp{ErrCode: -1}
	if failed.Succeeded() || failed.Canceled() {
		t.Fatalf("-1 must classify as plain failure")
	}
}
