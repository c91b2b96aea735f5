package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests  atomic.Int64
	DirectFetchHits     atomic.Int64
	ListedEnglishHits   atomic.Int64
	TranslatedHits      atomic.Int64
	UntranslatedHits    atomic.Int64
	ResolutionFailures  atomic.Int64
	SessionBindFailures atomic.Int64
	CookieLoadErrors    atomic.Int64
	TitleLookups        atomic.Int64
	TitleFailures       atomic.Int64
	FetchRequests       atomic.Int64
	FetchErrors         atomic.Int64
	LLMCalls            atomic.Int64
	LLMErrors           atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"transcript_requests",
	"direct_fetch_hits", "listed_english_hits", "translated_hits", "untranslated_hits",
	"resolution_failures", "session_bind_failures", "cookie_load_errors",
	"title_lookups", "title_failures",
	"fetch_requests", "fetch_errors",
	"llm_calls", "llm_errors",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"transcript_requests":   metrics.TranscriptRequests.Load(),
		"direct_fetch_hits":     metrics.DirectFetchHits.Load(),
		"listed_english_hits":   metrics.ListedEnglishHits.Load(),
		"translated_hits":       metrics.TranslatedHits.Load(),
		"untranslated_hits":     metrics.UntranslatedHits.Load(),
		"resolution_failures":   metrics.ResolutionFailures.Load(),
		"session_bind_failures": metrics.SessionBindFailures.Load(),
		"cookie_load_errors":    metrics.CookieLoadErrors.Load(),
		"title_lookups":         metrics.TitleLookups.Load(),
		"title_failures":        metrics.TitleFailures.Load(),
		"fetch_requests":        metrics.FetchRequests.Load(),
		"fetch_errors":          metrics.FetchErrors.Load(),
		"llm_calls":             metrics.LLMCalls.Load(),
		"llm_errors":            metrics.LLMErrors.Load(),
		"cache_hits":            hits,
		"cache_misses":          misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the transcript sub-package.
func IncrTranscriptRequests()  { metrics.TranscriptRequests.Add(1) }
func IncrDirectFetchHits()     { metrics.DirectFetchHits.Add(1) }
func IncrListedEnglishHits()   { metrics.ListedEnglishHits.Add(1) }
func IncrTranslatedHits()      { metrics.TranslatedHits.Add(1) }
func IncrUntranslatedHits()    { metrics.UntranslatedHits.Add(1) }
func IncrResolutionFailures()  { metrics.ResolutionFailures.Add(1) }
func IncrSessionBindFailures() { metrics.SessionBindFailures.Add(1) }
func IncrCookieLoadErrors()    { metrics.CookieLoadErrors.Add(1) }

// Incrementors for the sources sub-package.
func IncrTitleLookups()  { metrics.TitleLookups.Add(1) }
func IncrTitleFailures() { metrics.TitleFailures.Add(1) }

// IncrFetchRequests increments the page fetch counter.
func IncrFetchRequests() { metrics.FetchRequests.Add(1) }

// IncrFetchErrors increments the page fetch error counter.
func IncrFetchErrors() { metrics.FetchErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
