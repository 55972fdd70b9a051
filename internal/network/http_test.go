package network

import (
	"net/url"
	"testing"

	"github.com/aifusion/aifusionbot/internal/config"
	"github.com/aifusion/aifusionbot/internal/logger"
)

func TestSOCKS5DialContext(t *testing.T) {
	proxyURL, _ := url.Parse("socks5://127.0.0.1:1080")

	dialFunc, err := socks5DialContext(proxyURL, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if dialFunc == nil {
		t.Fatal("expected dialFunc to be non-nil")
	}
}

func TestSetupHTTPClient(t *testing.T) {
	t.Run("without proxy", func(t *testing.T) {
		testLogger := logger.NewTestLogger()

		client := SetupHTTPClient(NewDefaultHTTPClientConfig(config.HTTPConfig{}), testLogger)

		if client == nil {
			t.Fatal("expected client to be non-nil")
		}
		if client.Transport == nil {
			t.Fatal("expected transport to be non-nil")
		}
		if !testLogger.HasEntry("info", LogProxyNotConfigured) {
			t.Error("expected log entry about direct connection")
		}
	})

	t.Run("with socks5 proxy", func(t *testing.T) {
		testLogger := logger.NewTestLogger()

		cfg := NewDefaultHTTPClientConfig(config.HTTPConfig{})
		cfg.ProxyURL = "socks5://127.0.0.1:1080"
		client := SetupHTTPClient(cfg, testLogger)

		if client == nil {
			t.Fatal("expected client to be non-nil")
		}
		if testLogger.HasEntry("info", LogProxyNotConfigured) {
			t.Error("should not log direct connection when proxy is configured")
		}
	})
}

func TestHostExcluded(t *testing.T) {
	tests := []struct {
		host    string
		noProxy []string
		want    bool
	}{
		{"example.com", []string{"example.com"}, true},
		{"example.com", []string{"other.com"}, false},
		{"api.example.com", []string{"*.example.com"}, true},
		{"example.com", []string{"*.example.com"}, false},
		{"example.com", nil, false},
		{"internal.host", []string{"other.com", "internal.*"}, true},
	}

	for _, tt := range tests {
		if got := hostExcluded(tt.host, tt.noProxy); got != tt.want {
			t.Errorf("hostExcluded(%q, %v) = %v, want %v", tt.host, tt.noProxy, got, tt.want)
		}
	}
}
