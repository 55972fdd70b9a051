package network

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/aifusion/aifusionbot/internal/config"
	"github.com/aifusion/aifusionbot/internal/logger"
)

const LogProxyNotConfigured = "Proxy not configured, using direct connection"

type HTTPClientConfig struct {
	ProxyURL              string
	NoProxy               []string
	Timeout               time.Duration
	DisableKeepAlives     bool
	MaxIdleConns          int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ExpectContinueTimeout time.Duration
	ForceAttemptHTTP2     bool
}

func NewDefaultHTTPClientConfig(cfg config.HTTPConfig) HTTPClientConfig {
	return HTTPClientConfig{
		ProxyURL:              cfg.GetProxy(),
		NoProxy:               cfg.GetNoProxy(),
		Timeout:               3 * time.Minute,
		MaxIdleConns:          100,
		DisableKeepAlives:     false,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}

// NewFetchHTTPClientConfig is tuned for one-shot page and subtitle fetches.
func NewFetchHTTPClientConfig(cfg config.HTTPConfig) HTTPClientConfig {
	conf := NewDefaultHTTPClientConfig(cfg)
	conf.Timeout = 30 * time.Second
	conf.MaxIdleConns = 10
	conf.IdleConnTimeout = 10 * time.Second
	conf.DisableKeepAlives = true
	return conf
}

func SetupHTTPClient(cfg HTTPClientConfig, log logger.Logger) *http.Client {
	transport := &http.Transport{
		ForceAttemptHTTP2:     cfg.ForceAttemptHTTP2,
		MaxIdleConns:          cfg.MaxIdleConns,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		DisableKeepAlives:     cfg.DisableKeepAlives,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ExpectContinueTimeout: cfg.ExpectContinueTimeout,
	}

	if cfg.ProxyURL == "" {
		log.Info(LogProxyNotConfigured)
	} else if err := applyProxy(transport, cfg, log); err != nil {
		log.WithError(err).Fatal("failed to configure proxy")
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}

func applyProxy(transport *http.Transport, cfg HTTPClientConfig, log logger.Logger) error {
	parsed, err := url.Parse(cfg.ProxyURL)
	if err != nil {
		return fmt.Errorf("failed to parse proxy URL: %w", err)
	}

	switch parsed.Scheme {
	case "socks5":
		dial, err := socks5DialContext(parsed, cfg.NoProxy)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.DialContext = dial
	case "http", "https":
		target := parsed
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			if hostExcluded(req.URL.Hostname(), cfg.NoProxy) {
				return nil, nil
			}
			return target, nil
		}
	default:
		return fmt.Errorf("unsupported proxy scheme: %s", parsed.Scheme)
	}

	log.WithFields(logger.Fields{
		"proxy":    parsed.Redacted(),
		"no_proxy": cfg.NoProxy,
	}).Info("Proxy configured")
	return nil
}

// hostExcluded supports exact hosts and * wildcards in no_proxy entries.
func hostExcluded(host string, noProxy []string) bool {
	for _, pattern := range noProxy {
		if strings.Contains(pattern, "*") {
			expr := "^" + strings.ReplaceAll(pattern, "*", ".*") + "$"
			if matched, _ := regexp.MatchString(expr, host); matched {
				return true
			}
			continue
		}
		if host == pattern {
			return true
		}
	}
	return false
}

func socks5DialContext(proxyURL *url.URL, noProxy []string) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	direct := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	socks, err := proxy.FromURL(proxyURL, direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy dialer: %w", err)
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		if hostExcluded(host, noProxy) {
			return direct.DialContext(ctx, network, addr)
		}
		return socks.Dial(network, addr)
	}, nil
}
