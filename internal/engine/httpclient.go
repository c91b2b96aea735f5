package engine

import (
	"fmt"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// BrowserTransport is an http.RoundTripper that sends requests through
// tls-client with a Chrome TLS fingerprint (JA3 hash of Chrome 131+).
// Redirects and cookies stay with the wrapping http.Client.
type BrowserTransport struct {
	client tls_client.HttpClient
}

// NewBrowserTransport creates a transport that impersonates Chrome 131.
func NewBrowserTransport(timeout time.Duration) (*BrowserTransport, error) {
	secs := int(timeout / time.Second)
	if secs <= 0 {
		secs = 15
	}
	opts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(secs),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithNotFollowRedirects(),
	}
	client, err := tls_client.NewHttpClient(nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("tls-client init: %w", err)
	}
	return &BrowserTransport{client: client}, nil
}

// RoundTrip implements http.RoundTripper.
func (t *BrowserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	freq, err := fhttp.NewRequestWithContext(req.Context(), req.Method, req.URL.String(), req.Body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	freq.Header = fhttp.Header(req.Header.Clone())
	if freq.Header == nil {
		freq.Header = fhttp.Header{}
	}

	// Chrome-like header order matters for fingerprinting
	freq.Header[fhttp.HeaderOrderKey] = []string{
		"accept",
		"accept-language",
		"accept-encoding",
		"content-type",
		"referer",
		"cookie",
		"user-agent",
	}

	fresp, err := t.client.Do(freq)
	if err != nil {
		return nil, fmt.Errorf("tls request: %w", err)
	}
	return &http.Response{
		Status:        fresp.Status,
		StatusCode:    fresp.StatusCode,
		Proto:         fresp.Proto,
		ProtoMajor:    fresp.ProtoMajor,
		ProtoMinor:    fresp.ProtoMinor,
		Header:        http.Header(fresp.Header),
		Body:          fresp.Body,
		ContentLength: fresp.ContentLength,
		Request:       req,
	}, nil
}

// NewHTTPClient builds the shared outbound client. With browserTLS set the
// client goes through BrowserTransport; otherwise a pooled net/http transport.
// No cookie jar is attached: cookies only travel on request-scoped sessions.
func NewHTTPClient(timeout time.Duration, browserTLS bool) (*http.Client, error) {
	if browserTLS {
		bt, err := NewBrowserTransport(timeout)
		if err != nil {
			return nil, err
		}
		return &http.Client{Timeout: timeout, Transport: bt}, nil
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
	}, nil
}
