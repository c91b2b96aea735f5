// Package transcript resolves a video transcript through an ordered cascade
// of strategies over whichever transcript source surface is available.
package transcript

import "context"

// LanguagePreferences is the ordered list of languages accepted without translation.
var LanguagePreferences = []string{"en", "id", "es", "fr", "de", "it", "ja", "ko", "zh-Hans", "zh-Hant"}

// Record is one segment as delivered by a source: an engine.Segment,
// a SegmentRecord, or a map[string]any with text/start/duration keys.
type Record = any

// SegmentRecord is the object-like record shape.
type SegmentRecord interface {
	SegmentText() string
	SegmentStart() float64
	SegmentDuration() float64
}

// Track is one enumerated transcript of a video.
type Track interface {
	LanguageCode() string
	Fetch(ctx context.Context) ([]Record, error)
	Translate(languageCode string) (Track, error)
}

// Listing is the enumeration of a video's transcripts.
type Listing interface {
	// FindTranscript returns the first track matching languages in priority order.
	FindTranscript(languages ...string) (Track, error)
	// Tracks returns every enumerated track in source order.
	Tracks() []Track
}

// Source is the current instance-based transcript surface.
type Source interface {
	Fetch(ctx context.Context, videoID string, languages []string) ([]Record, error)
	List(ctx context.Context, videoID string) (Listing, error)
}

// LegacySource is the older surface with differently named operations
// and mapping-only records.
type LegacySource interface {
	GetTranscript(ctx context.Context, videoID string, languages []string) ([]map[string]any, error)
	ListTranscripts(ctx context.Context, videoID string) (Listing, error)
}

// SessionBinder is implemented by sources that can run under a cookie session.
type SessionBinder interface {
	WithSession(s *Session) (Source, error)
}
