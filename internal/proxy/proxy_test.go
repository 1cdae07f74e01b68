package proxy

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proxyFor(t *testing.T, client *http.Client, target string) string {
	t.Helper()
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)

	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	proxyURL, err := transport.Proxy(req)
	require.NoError(t, err)
	if proxyURL == nil {
		return ""
	}
	return proxyURL.String()
}

func TestNewHTTPClient_Disabled(t *testing.T) {
	client, err := NewHTTPClient(false, "http://proxy:8080", "", 30*time.Second)
	require.NoError(t, err)
	assert.Nil(t, client.Transport)
	assert.Equal(t, 30*time.Second, client.Timeout)
}

func TestNewHTTPClient_PerScheme(t *testing.T) {
	client, err := NewHTTPClient(true, "http://proxy-a:8080", "http://proxy-b:8443", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "http://proxy-a:8080", proxyFor(t, client, "http://api.openai.com/v1"))
	assert.Equal(t, "http://proxy-b:8443", proxyFor(t, client, "https://api.openai.com/v1"))
}

func TestNewHTTPClient_SingleURLCoversBothSchemes(t *testing.T) {
	client, err := NewHTTPClient(true, "http://proxy:8080", "", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "http://proxy:8080", proxyFor(t, client, "http://example.com"))
	assert.Equal(t, "http://proxy:8080", proxyFor(t, client, "https://example.com"))

	client, err = NewHTTPClient(true, "", "http://secure-proxy:8443", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "http://secure-proxy:8443", proxyFor(t, client, "http://example.com"))
	assert.Equal(t, "http://secure-proxy:8443", proxyFor(t, client, "https://example.com"))
}

func TestNewHTTPClient_InvalidURL(t *testing.T) {
	_, err := NewHTTPClient(true, "http://bad proxy", "", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP proxy")
}
