package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_watchless/internal/engine"
)

// noTranscriptMarker is the adapter failure text that signals the provider
// could not produce any transcript, usually because the IP is blocked.
const noTranscriptMarker = "Could not retrieve a transcript"

// CookieHint is appended to unauthenticated failures matching noTranscriptMarker.
const CookieHint = " (YouTube Blocked IP? Try adding cookies)"

var (
	// ErrEmptyVideoID is returned before any strategy runs.
	ErrEmptyVideoID = errors.New("transcript: empty video id")
	// ErrNoSegments marks a strategy that returned an empty transcript.
	ErrNoSegments = errors.New("transcript: no segments returned")
	// ErrNoTracks marks an enumeration with nothing in it.
	ErrNoTracks = errors.New("transcript: no transcripts listed")
)

// ResolutionError is the definitive failure of a resolution.
type ResolutionError struct {
	VideoID string
	Reason  string // text of the last error encountered
	Hint    string // optional, already prefixed with a space
	Err     error
}

func (e *ResolutionError) Error() string {
	return e.Reason + e.Hint
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// strategy is one step of the cascade.
type strategy struct {
	name string
	run  func(ctx context.Context, s surface, videoID string) ([]Record, error)
	hit  func()
}

// Resolver turns a video id into a normalized transcript.
// The adapter surface and its session support are resolved once in NewResolver.
type Resolver struct {
	base       surface
	capability Capability
	binder     SessionBinder // nil when the adapter cannot run under a session
	languages  []string
	strategies []strategy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLanguages overrides LanguagePreferences for the direct fetch.
func WithLanguages(languages ...string) Option {
	return func(r *Resolver) {
		if len(languages) > 0 {
			r.languages = append([]string(nil), languages...)
		}
	}
}

// NewResolver probes adapter once and returns a resolver driving whichever
// surface it exposes.
func NewResolver(adapter any, opts ...Option) (*Resolver, error) {
	base, c, err := newSurface(adapter)
	if err != nil {
		return nil, err
	}
	r := &Resolver{
		base:       base,
		capability: c,
		languages:  append([]string(nil), LanguagePreferences...),
	}
	if b, ok := adapter.(SessionBinder); ok {
		r.binder = b
	}
	for _, opt := range opts {
		opt(r)
	}
	r.strategies = []strategy{
		{name: "direct", run: r.directFetch, hit: engine.IncrDirectFetchHits},
		{name: "enumerate", run: enumerate},
	}
	slog.Debug("transcript: adapter resolved",
		slog.String("capability", c.String()),
		slog.Bool("session_binding", r.binder != nil))
	return r, nil
}

// Capability reports the detected adapter surface.
func (r *Resolver) Capability() Capability { return r.capability }

// SupportsSession reports whether sessions are bound into the adapter.
func (r *Resolver) SupportsSession() bool { return r.binder != nil }

// Resolve runs the strategy cascade. session may be nil.
func (r *Resolver) Resolve(ctx context.Context, videoID string, session *Session) ([]engine.Segment, error) {
	if videoID == "" {
		return nil, ErrEmptyVideoID
	}
	engine.IncrTranscriptRequests()
	s := r.surfaceFor(session)

	var lastErr error
	for _, st := range r.strategies {
		records, err := st.run(ctx, s, videoID)
		segments := Normalize(records)
		if err == nil && len(segments) == 0 {
			err = ErrNoSegments
		}
		if err != nil {
			slog.Debug("transcript: strategy failed",
				slog.String("strategy", st.name),
				slog.String("video_id", videoID),
				slog.Any("error", err))
			lastErr = err
			continue
		}
		if st.hit != nil {
			st.hit()
		}
		return segments, nil
	}

	engine.IncrResolutionFailures()
	return nil, newResolutionError(videoID, lastErr, session != nil)
}

// surfaceFor binds session into the adapter when possible. A failed bind
// leaves the request unauthenticated rather than failing it.
func (r *Resolver) surfaceFor(session *Session) surface {
	if session == nil || r.binder == nil {
		return r.base
	}
	bound, err := r.binder.WithSession(session)
	if err != nil || bound == nil {
		engine.IncrSessionBindFailures()
		slog.Warn("transcript: session binding failed, continuing without cookies", slog.Any("error", err))
		return r.base
	}
	return modernSurface{src: bound}
}

func (r *Resolver) directFetch(ctx context.Context, s surface, videoID string) ([]Record, error) {
	return s.fetch(ctx, videoID, r.languages)
}

// enumerate lists tracks and takes exact English, else the first track
// translated to English, else the first track as is. Only a failed listing
// fails the strategy outright.
func enumerate(ctx context.Context, s surface, videoID string) ([]Record, error) {
	listing, err := s.list(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	fetchTrack := func(t Track, hit func()) []Record {
		records, err := t.Fetch(ctx)
		if err == nil && len(Normalize(records)) == 0 {
			err = ErrNoSegments
		}
		if err != nil {
			lastErr = err
			return nil
		}
		hit()
		return records
	}

	if t, err := listing.FindTranscript("en"); err == nil {
		if records := fetchTrack(t, engine.IncrListedEnglishHits); records != nil {
			return records, nil
		}
	} else {
		lastErr = err
	}

	tracks := listing.Tracks()
	if len(tracks) == 0 {
		if lastErr == nil {
			lastErr = ErrNoTracks
		}
		return nil, lastErr
	}
	first := tracks[0]

	if translated, err := first.Translate("en"); err == nil {
		if records := fetchTrack(translated, engine.IncrTranslatedHits); records != nil {
			return records, nil
		}
	} else {
		slog.Debug("transcript: translation unavailable",
			slog.String("language", first.LanguageCode()), slog.Any("error", err))
	}

	if records := fetchTrack(first, engine.IncrUntranslatedHits); records != nil {
		return records, nil
	}
	return nil, lastErr
}

func newResolutionError(videoID string, lastErr error, authenticated bool) *ResolutionError {
	if lastErr == nil {
		lastErr = ErrNoSegments
	}
	e := &ResolutionError{
		VideoID: videoID,
		Reason:  lastErr.Error(),
		Err:     lastErr,
	}
	if e.Reason == "" {
		e.Reason = fmt.Sprintf("no transcript available for video %s", videoID)
	}
	if !authenticated && strings.Contains(e.Reason, noTranscriptMarker) {
		e.Hint = CookieHint
	}
	return e
}
