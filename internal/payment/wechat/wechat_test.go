package wechat

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPostUnifiedOrder(t *testing.T) {
	cfg := buildTestConfig()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected post request, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/xml" {
			t.Fatalf("unexpected content type: %s", got)
		}
		if got := r.Header.Get("Cache-Control"); got != "no-cache" {
			t.Fatalf("unexpected cache control: %s", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read request body failed: %v", err)
		}
		if !strings.Contains(string(body), "<out_trade_no>010212000112345</out_trade_no>") {
			t.Fatalf("request body missing order no: %s", body)
		}
		if !strings.Contains(string(body), "<sign>") {
			t.Fatalf("request body missing signature")
		}
		_, _ = w.Write([]byte(successRespXML))
	}))
	defer server.Close()

	req, err := BuildUnifiedOrder(cfg, buildTestOrder())
	if err != nil {
		t.Fatalf("build unified order failed: %v", err)
	}
	resp, err := PostUnifiedOrder(context.Background(), nil, server.URL, req)
	if err != nil {
		t.Fatalf("post unified order failed: %v", err)
	}
	if !resp.HasPrepayID() {
		t.Fatalf("expected prepay_id in response")
	}
}

func TestPostUnifiedOrderRejectsUnsigned(t *testing.T) {
	req := &UnifiedOrderReq{AppID: "wx1234567890"}
	if _, err := PostUnifiedOrder(context.Background(), nil, "http://127.0.0.1:1", req); !errors.Is(err, ErrUnsigned) {
		t.Fatalf("expected unsigned error, got %v", err)
	}
}

func TestPostUnifiedOrderBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	req, err := BuildUnifiedOrder(buildTestConfig(), buildTestOrder())
	if err != nil {
		t.Fatalf("build unified order failed: %v", err)
	}
	if _, err := PostUnifiedOrder(context.Background(), nil, server.URL, req); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected response invalid, got %v", err)
	}
}

func TestPostUnifiedOrderTransportError(t *testing.T) {
	req, err := BuildUnifiedOrder(buildTestConfig(), buildTestOrder())
	if err != nil {
		t.Fatalf("build unified order failed: %v", err)
	}
	if _, err := PostUnifiedOrder(context.Background(), nil, "http://127.0.0.1:1", req); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected request failed, got %v", err)
	}
}
