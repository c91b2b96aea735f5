// Package pipeline runs one transcript request end to end:
// title lookup, transcript resolution, and optional summarization.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anatolykoptev/go_watchless/internal/engine"
	"github.com/anatolykoptev/go_watchless/internal/engine/sources"
	"github.com/anatolykoptev/go_watchless/internal/engine/transcript"
)

// ErrMissingVideoID is returned for requests without a video id.
var ErrMissingVideoID = errors.New("Missing videoId") //nolint:staticcheck // user-facing message

// Resolver produces a normalized transcript.
type Resolver interface {
	Resolve(ctx context.Context, videoID string, session *transcript.Session) ([]engine.Segment, error)
}

// TitleFetcher looks up a display title. It never fails.
type TitleFetcher interface {
	Title(ctx context.Context, videoID string) string
}

// Summarizer turns a transcript into documentation.
type Summarizer interface {
	Ready() error
	Summarize(ctx context.Context, meta engine.VideoMeta, segments []engine.Segment) (string, error)
}

// SessionFactory builds a fresh session per request; nil means unauthenticated.
type SessionFactory func() *transcript.Session

// Request is one transcript request.
type Request struct {
	VideoID   string
	Summarize bool
}

// Result is a successful request. Summary is nil unless requested.
type Result struct {
	VideoID    string
	Title      string
	Transcript []engine.Segment
	Summary    *string
}

// Service wires the collaborators of a request.
type Service struct {
	resolver   Resolver
	titles     TitleFetcher
	summarizer Summarizer
	sessions   SessionFactory
}

// New returns a Service. titles, summarizer and sessions may be nil.
func New(resolver Resolver, titles TitleFetcher, summarizer Summarizer, sessions SessionFactory) *Service {
	return &Service{resolver: resolver, titles: titles, summarizer: summarizer, sessions: sessions}
}

// Run executes the request. The summarizer's readiness is checked before
// any network call so a missing key fails fast.
func (s *Service) Run(ctx context.Context, req Request) (res *Result, err error) {
	_ = engine.TrackOperation(ctx, "transcript:"+req.VideoID, func(ctx context.Context) error {
		res, err = s.run(ctx, req)
		return err
	})
	return
}

func (s *Service) run(ctx context.Context, req Request) (*Result, error) {
	if req.VideoID == "" {
		return nil, ErrMissingVideoID
	}
	if req.Summarize {
		if s.summarizer == nil {
			return nil, engine.ErrMissingAPIKey
		}
		if err := s.summarizer.Ready(); err != nil {
			return nil, err
		}
	}

	title := sources.UnknownTitle
	if s.titles != nil {
		title = s.titles.Title(ctx, req.VideoID)
	}

	var session *transcript.Session
	if s.sessions != nil {
		session = s.sessions()
	}

	segments, err := s.resolver.Resolve(ctx, req.VideoID, session)
	if err != nil {
		slog.Info("transcript: resolution failed",
			slog.String("video_id", req.VideoID),
			slog.Bool("session", session != nil),
			slog.Any("error", err))
		return nil, err
	}

	res := &Result{VideoID: req.VideoID, Title: title, Transcript: segments}
	if !req.Summarize {
		return res, nil
	}

	summary, err := s.summarizer.Summarize(ctx, engine.NewVideoMeta(req.VideoID, title), segments)
	if err != nil {
		return nil, err
	}
	res.Summary = &summary
	return res, nil
}
