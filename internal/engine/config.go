package engine

import (
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// DefaultYouTubeBaseURL is the origin all YouTube page and Innertube calls go to.
const DefaultYouTubeBaseURL = "https://www.youtube.com"

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeBaseURL string
	LLMAPIKey      string
	LLMAPIBase     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMReferer     string
	LLMAppTitle    string
	FetchTimeout   time.Duration
	FetchRetries   int // total attempts for page fetches; <= 1 disables retry
	TitleCacheTTL  time.Duration
	HTTPClient     *http.Client
	LLMClient      *llm.Client // nil = summarization unavailable
}

var cfg Config

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
}

// HTTPClient returns the configured client, or http.DefaultClient before Init.
func HTTPClient() *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return http.DefaultClient
}

// YouTubeURL joins path onto the configured YouTube origin.
func YouTubeURL(path string) string {
	base := cfg.YouTubeBaseURL
	if base == "" {
		base = DefaultYouTubeBaseURL
	}
	return strings.TrimRight(base, "/") + path
}

// WatchURL is the public watch page URL for a video. It never follows
// YouTubeBaseURL so prompts and error texts stay stable.
func WatchURL(videoID string) string {
	return DefaultYouTubeBaseURL + "/watch?v=" + videoID
}
