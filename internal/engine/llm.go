package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// ErrMissingAPIKey is returned when summarization is requested without a key.
// The text is surfaced verbatim in API error bodies.
var ErrMissingAPIKey = errors.New("Missing API Key") //nolint:staticcheck // user-facing message

// maxUpstreamBody caps how much of a failed completion response is kept.
const maxUpstreamBody = 64 * 1024

// UpstreamError wraps a failed or non-200 chat completion call.
// Status and Body are set when the provider answered with an error status.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("AI Error (%d): %s", e.Status, e.Body)
	}
	return "AI Error: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// headerTransport adds the attribution headers OpenRouter uses for app rankings.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

type upstreamCaptureKey struct{}

// upstreamCapture receives the status and body of the last error response
// seen for a request context.
type upstreamCapture struct {
	status int
	body   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < http.StatusMultipleChoices {
		return resp, err
	}
	if c, ok := req.Context().Value(upstreamCaptureKey{}).(*upstreamCapture); ok {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(data))
		c.status = resp.StatusCode
		c.body = strings.TrimSpace(string(data))
	}
	return resp, nil
}

// NewLLMClient builds the chat completion client from c.
// Returns nil when no API key is configured.
func NewLLMClient(c Config) *llm.Client {
	if c.LLMAPIKey == "" {
		return nil
	}
	httpClient := &http.Client{
		Timeout: 5 * time.Minute,
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": c.LLMReferer,
				"X-Title":      c.LLMAppTitle,
			},
		},
	}
	return llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(httpClient),
	)
}

// SummaryPrompts renders the system and user prompts for a video.
func SummaryPrompts(meta VideoMeta, segments []Segment) (system, user string) {
	system = fmt.Sprintf(summarySystemPrompt, meta.URL, meta.ID, meta.Title)
	user = fmt.Sprintf(summaryUserPrompt, TranscriptText(segments))
	return system, user
}

// SummarizeTranscript produces Obsidian-format documentation for a transcript.
func SummarizeTranscript(ctx context.Context, meta VideoMeta, segments []Segment) (string, error) {
	if cfg.LLMClient == nil {
		return "", ErrMissingAPIKey
	}
	system, user := SummaryPrompts(meta, segments)

	metrics.LLMCalls.Add(1)
	capture := &upstreamCapture{}
	ctx = context.WithValue(ctx, upstreamCaptureKey{}, capture)
	var out string
	err := TrackOperation(ctx, "llm_summarize", func(ctx context.Context) error {
		var err error
		out, err = cfg.LLMClient.Complete(ctx, system, user,
			llm.WithChatTemperature(cfg.LLMTemperature),
			llm.WithChatMaxTokens(cfg.LLMMaxTokens),
		)
		return err
	})
	if err != nil {
		metrics.LLMErrors.Add(1)
		slog.Warn("llm: summarize failed", slog.String("video_id", meta.ID),
			slog.String("error", TruncateRunes(err.Error(), 300, "...")))
		return "", &UpstreamError{Status: capture.status, Body: capture.body, Err: err}
	}
	return strings.TrimSpace(out), nil
}

// LLMSummarizer adapts the package-level client to the request pipeline.
type LLMSummarizer struct{}

// Ready reports ErrMissingAPIKey when summarization cannot run at all.
func (LLMSummarizer) Ready() error {
	if cfg.LLMClient == nil {
		return ErrMissingAPIKey
	}
	return nil
}

// Summarize delegates to SummarizeTranscript.
func (LLMSummarizer) Summarize(ctx context.Context, meta VideoMeta, segments []Segment) (string, error) {
	return SummarizeTranscript(ctx, meta, segments)
}
