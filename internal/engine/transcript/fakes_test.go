package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_watchless/internal/engine"
)

// Test doubles for the adapter surfaces.

type fakeTrack struct {
	lang       string
	records    []Record
	err        error
	translated *fakeTrack // nil = not translatable
	fetched    int
}

func (t *fakeTrack) LanguageCode() string { return t.lang }

func (t *fakeTrack) Fetch(context.Context) ([]Record, error) {
	t.fetched++
	return t.records, t.err
}

func (t *fakeTrack) Translate(code string) (Track, error) {
	if t.translated == nil {
		return nil, fmt.Errorf("track %s is not translatable to %s", t.lang, code)
	}
	return t.translated, nil
}

type fakeListing struct {
	tracks []*fakeTrack
}

func (l *fakeListing) FindTranscript(languages ...string) (Track, error) {
	for _, lang := range languages {
		for _, t := range l.tracks {
			if t.lang == lang {
				return t, nil
			}
		}
	}
	return nil, fmt.Errorf("no transcript found for %v", languages)
}

func (l *fakeListing) Tracks() []Track {
	out := make([]Track, len(l.tracks))
	for i, t := range l.tracks {
		out[i] = t
	}
	return out
}

type fakeSource struct {
	records  []Record
	fetchErr error
	listing  *fakeListing
	listErr  error

	fetchCalls int
	listCalls  int
	gotLangs   []string
}

func (s *fakeSource) Fetch(_ context.Context, _ string, languages []string) ([]Record, error) {
	s.fetchCalls++
	s.gotLangs = languages
	return s.records, s.fetchErr
}

func (s *fakeSource) List(context.Context, string) (Listing, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.listing == nil {
		return &fakeListing{}, nil
	}
	return s.listing, nil
}

type fakeLegacy struct {
	rows    []map[string]any
	err     error
	listing *fakeListing
	listErr error
}

func (l *fakeLegacy) GetTranscript(context.Context, string, []string) ([]map[string]any, error) {
	return l.rows, l.err
}

func (l *fakeLegacy) ListTranscripts(context.Context, string) (Listing, error) {
	if l.listErr != nil {
		return nil, l.listErr
	}
	if l.listing == nil {
		return &fakeListing{}, nil
	}
	return l.listing, nil
}

// bothSurfaces exposes the modern and the legacy surface at once.
type bothSurfaces struct {
	*fakeSource
	legacyCalls int
}

func (b *bothSurfaces) GetTranscript(context.Context, string, []string) ([]map[string]any, error) {
	b.legacyCalls++
	return nil, errors.New("legacy surface should not be used")
}

func (b *bothSurfaces) ListTranscripts(context.Context, string) (Listing, error) {
	b.legacyCalls++
	return nil, errors.New("legacy surface should not be used")
}

type bindingSource struct {
	*fakeSource
	bound     *fakeSource
	bindErr   error
	bindCalls int
}

func (b *bindingSource) WithSession(*Session) (Source, error) {
	b.bindCalls++
	if b.bindErr != nil {
		return nil, b.bindErr
	}
	return b.bound, nil
}

func seg(text string, start, dur float64) Record {
	return engine.Segment{Text: text, Start: start, Duration: dur}
}

const blockedText = "Could not retrieve a transcript for the video https://www.youtube.com/watch?v=abc123! This is most likely caused by: blocked"
