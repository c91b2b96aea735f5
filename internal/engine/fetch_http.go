package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// maxPageBytes caps response reads; YouTube watch pages run to a few MB.
const maxPageBytes = 6 * 1024 * 1024

// ErrResponseTooLarge is returned when a body exceeds maxPageBytes.
var ErrResponseTooLarge = errors.New("response too large")

// StatusError is returned for non-200 responses.
type StatusError struct {
	Method     string
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// FetchPage performs an HTTP GET with Chrome headers and returns the body.
// headers override the defaults.
func FetchPage(ctx context.Context, client *http.Client, pageURL string, headers map[string]string) ([]byte, error) {
	return doRequest(ctx, client, http.MethodGet, pageURL, nil, headers)
}

// PostJSON POSTs payload encoded as JSON and returns the response body.
func PostJSON(ctx context.Context, client *http.Client, endpoint string, payload any, headers map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	h := map[string]string{"Content-Type": "application/json", "Accept": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	return doRequest(ctx, client, http.MethodPost, endpoint, body, h)
}

// doRequest runs one request, retrying retryable statuses with exponential
// backoff up to cfg.FetchRetries attempts in total. The default of one
// attempt means no retry at all.
func doRequest(ctx context.Context, client *http.Client, method, target string, body []byte, headers map[string]string) ([]byte, error) {
	IncrFetchRequests()
	if client == nil {
		client = HTTPClient()
	}
	if cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
	}

	operation := func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		for k, v := range defaultHeaders() {
			req.Header.Set(k, v)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{Method: method, StatusCode: resp.StatusCode, URL: target}
			if IsRetryableStatus(resp.StatusCode) {
				return nil, statusErr
			}
			return nil, backoff.Permanent(statusErr)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes+1))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if len(data) > maxPageBytes {
			return nil, backoff.Permanent(fmt.Errorf("%s %s: %w (over %d bytes)", method, target, ErrResponseTooLarge, maxPageBytes))
		}
		return data, nil
	}

	tries := max(cfg.FetchRetries, 1)
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	out, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(uint(tries)))
	if err != nil {
		IncrFetchErrors()
		return nil, err
	}
	return out, nil
}

// defaultHeaders is ChromeHeaders without accept-encoding, so the transport
// keeps transparent gzip decoding.
func defaultHeaders() map[string]string {
	h := make(map[string]string)
	for k, v := range ChromeHeaders() {
		if !strings.EqualFold(k, "accept-encoding") {
			h[k] = v
		}
	}
	return h
}
