package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_watchless/internal/engine"
	"github.com/anatolykoptev/go_watchless/internal/engine/transcript"
	"github.com/anatolykoptev/go_watchless/internal/pipeline"
)

func init() { gin.SetMode(gin.TestMode) }

// englishSource is a modern adapter with one English segment.
type englishSource struct {
	err error
}

func (s englishSource) Fetch(context.Context, string, []string) ([]transcript.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []transcript.Record{map[string]any{"text": "hello", "start": 0.0, "duration": 1.0}}, nil
}

func (s englishSource) List(context.Context, string) (transcript.Listing, error) {
	return nil, s.err
}

type fixedTitle string

func (t fixedTitle) Title(context.Context, string) string { return string(t) }

func newTestRouter(t *testing.T, src transcript.Source) *gin.Engine {
	t.Helper()
	engine.Init(engine.Config{}) // no API key
	r, err := transcript.NewResolver(src)
	require.NoError(t, err)
	svc := pipeline.New(r, fixedTitle("Demo"), engine.LLMSummarizer{}, nil)
	return NewRouter(svc, "test")
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestTranscriptOK(t *testing.T) {
	h := newTestRouter(t, englishSource{})

	w, body := get(t, h, "/api/transcript?videoId=abc123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"success": true,
		"video_id": "abc123",
		"title": "Demo",
		"transcript": [{"text":"hello","start":0,"duration":1}],
		"summary": null
	}`, w.Body.String())
	assert.Equal(t, true, body["success"])
}

func TestTranscriptSummarizeWithoutKey(t *testing.T) {
	h := newTestRouter(t, englishSource{})

	for _, q := range []string{"true", "TRUE", "True"} {
		w, body := get(t, h, "/api/transcript?videoId=abc123&summarize="+q)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, engine.ErrMissingAPIKey.Error(), body["error"])
	}

	w, body := get(t, h, "/api/transcript?videoId=abc123&summarize=yes")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["summary"])
}

func TestTranscriptSummarizeUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"invalid model"}}`)
	}))
	t.Cleanup(upstream.Close)

	r, err := transcript.NewResolver(englishSource{})
	require.NoError(t, err)
	h := NewRouter(pipeline.New(r, fixedTitle("Demo"), engine.LLMSummarizer{}, nil), "test")

	c := engine.Config{
		LLMAPIKey:  "test-key",
		LLMAPIBase: upstream.URL,
		LLMModel:   "bytedance-seed/seed-1.6-flash",
	}
	c.LLMClient = engine.NewLLMClient(c)
	engine.Init(c)
	t.Cleanup(func() { engine.Init(engine.Config{}) })

	w, body := get(t, h, "/api/transcript?videoId=abc123&summarize=true")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
	msg, _ := body["error"].(string)
	assert.True(t, strings.HasPrefix(msg, "AI Error (400): "), msg)
	assert.Contains(t, msg, "invalid model")
}

func TestTranscriptMissingVideoID(t *testing.T) {
	h := newTestRouter(t, englishSource{})

	w, body := get(t, h, "/api/transcript")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing videoId", body["error"])
}

func TestTranscriptResolutionFailure(t *testing.T) {
	blocked := errors.New("Could not retrieve a transcript for the video https://www.youtube.com/watch?v=abc123! This is most likely caused by:\n\nblocked")
	h := newTestRouter(t, englishSource{err: blocked})

	w, body := get(t, h, "/api/transcript?videoId=abc123")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, blocked.Error()+transcript.CookieHint, body["error"])
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, englishSource{})

	w, body := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])

	w, _ = get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "transcript_requests ")
}

func TestMiddleware(t *testing.T) {
	h := newTestRouter(t, englishSource{})

	w, _ := get(t, h, "/api/transcript?videoId=abc123")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(requestIDHeader))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/transcript", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
