package sources

import (
	"context"
	"net/http"

	"github.com/anatolykoptev/go_watchless/internal/engine/transcript"
)

// LegacyClient exposes the same YouTube data through the older surface:
// GetTranscript / ListTranscripts with mapping records and no session binding.
// It implements transcript.LegacySource.
type LegacyClient struct {
	c *Client
}

// NewLegacyClient returns a legacy-surface client.
func NewLegacyClient(httpClient *http.Client, baseURL string) *LegacyClient {
	return &LegacyClient{c: NewClient(httpClient, baseURL)}
}

// GetTranscript returns text/start/duration maps for the first matching language.
func (l *LegacyClient) GetTranscript(ctx context.Context, videoID string, languages []string) ([]map[string]any, error) {
	list, err := l.c.ListTranscripts(ctx, videoID)
	if err != nil {
		return nil, err
	}
	t, err := list.Find(languages...)
	if err != nil {
		return nil, err
	}
	snippets, err := t.Snippets(ctx)
	if err != nil {
		return nil, err
	}
	return snippetMaps(snippets), nil
}

// ListTranscripts enumerates tracks whose Fetch yields mapping records.
func (l *LegacyClient) ListTranscripts(ctx context.Context, videoID string) (transcript.Listing, error) {
	list, err := l.c.ListTranscripts(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return legacyListing{list: list}, nil
}

func snippetMaps(snippets []Snippet) []map[string]any {
	out := make([]map[string]any, len(snippets))
	for i, s := range snippets {
		out[i] = map[string]any{"text": s.Text, "start": s.Start, "duration": s.Duration}
	}
	return out
}

type legacyListing struct {
	list *TranscriptList
}

func (l legacyListing) FindTranscript(languages ...string) (transcript.Track, error) {
	t, err := l.list.Find(languages...)
	if err != nil {
		return nil, err
	}
	return legacyTrack{t: t}, nil
}

func (l legacyListing) Tracks() []transcript.Track {
	tracks := l.list.Tracks()
	out := make([]transcript.Track, len(tracks))
	for i, t := range tracks {
		out[i] = legacyTrack{t: t.(*Transcript)}
	}
	return out
}

type legacyTrack struct {
	t *Transcript
}

func (lt legacyTrack) LanguageCode() string { return lt.t.Code }

func (lt legacyTrack) Translate(languageCode string) (transcript.Track, error) {
	translated, err := lt.t.TranslateTo(languageCode)
	if err != nil {
		return nil, err
	}
	return legacyTrack{t: translated}, nil
}

func (lt legacyTrack) Fetch(ctx context.Context) ([]transcript.Record, error) {
	snippets, err := lt.t.Snippets(ctx)
	if err != nil {
		return nil, err
	}
	rows := snippetMaps(snippets)
	out := make([]transcript.Record, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out, nil
}
