package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestNew_AutoEnableDebugViaEnv(t *testing.T) {
	t.Setenv("USERFRONT_DEBUG", "true")
	c, err := New("http://example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mt, ok := c.http.Transport.(*metricsTransport)
	if !ok {
		t.Fatalf("outermost transport is %T", c.http.Transport)
	}
	ut := mt.base.(*unauthorizedTransport)
	bt := ut.base.(*bearerTransport)
	if _, ok := bt.base.(*debugTransport); !ok {
		t.Fatalf("expected debugTransport beneath the bearer wrapper, got %T", bt.base)
	}
}

func TestDebugLogging_InstalledOnce(t *testing.T) {
	t.Setenv("USERFRONT_DEBUG", "true")
	t.Setenv("DEBUG", "true")
	c, err := New("http://example.com", WithDebugLogging(true), WithDebugLogging(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bt := c.http.Transport.(*metricsTransport).base.(*unauthorizedTransport).base.(*bearerTransport)
	layers := 0
	for rt := bt.base; ; {
		dt, ok := rt.(*debugTransport)
		if !ok {
			break
		}
		layers++
		rt = dt.base
	}
	if layers != 1 {
		t.Fatalf("debug transport installed %d times, want 1", layers)
	}
}

func TestDebugTransport_ErrorPath(t *testing.T) {
	// base transport returns error
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})
	c, err := New("http://example.com", WithHTTPClient(&http.Client{Transport: rt}), WithDebugLogging(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", http.NoBody)
	if _, err := c.http.Do(req); err == nil {
		t.Fatalf("expected error from underlying transport")
	}
}

func TestRedactAuthorization(t *testing.T) {
	dump := "GET /users HTTP/1.1\r\nHost: example.com\r\nAuthorization: Bearer s3cret\r\n\r\n{\"note\":\"Authorization: stays\"}"
	got := redactAuthorization([]byte(dump))
	if strings.Contains(got, "s3cret") {
		t.Fatalf("token leaked: %q", got)
	}
	if !strings.Contains(got, "Authorization: [REDACTED]") {
		t.Fatalf("header not redacted: %q", got)
	}
	if !strings.Contains(got, `"Authorization: stays"`) {
		t.Fatalf("body was altered: %q", got)
	}
}
