// Package proxy builds request-scoped HTTP clients for outbound
// summarizer calls. Proxy settings are carried by the client itself
// instead of mutating process-wide environment variables, so unrelated
// requests are never routed through the summarizer proxy.
package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// NewHTTPClient returns an HTTP client honoring the configured proxy
// URLs. When disabled it returns a plain client with only the timeout
// applied.
func NewHTTPClient(enabled bool, httpProxy, httpsProxy string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{Timeout: timeout}
	if !enabled {
		return client, nil
	}

	httpURL, err := parseProxyURL(httpProxy)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP proxy: %w", err)
	}
	httpsURL, err := parseProxyURL(httpsProxy)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTPS proxy: %w", err)
	}
	if httpsURL == nil {
		httpsURL = httpURL
	}
	if httpURL == nil {
		httpURL = httpsURL
	}

	client.Transport = &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "https" {
				return httpsURL, nil
			}
			return httpURL, nil
		},
	}
	return client, nil
}

func parseProxyURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	return url.Parse(raw)
}
