package sources

import (
	"context"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_watchless/internal/engine"
	"github.com/anatolykoptev/go_watchless/internal/engine/transcript"
)

// Client fetches YouTube transcripts through the watch page and the
// ANDROID Innertube player. It implements transcript.Source and
// transcript.SessionBinder.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a client using httpClient (engine default when nil)
// against baseURL (engine.YouTubeURL origin when empty).
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) url(path string) string {
	if c.baseURL == "" {
		return engine.YouTubeURL(path)
	}
	return c.baseURL + path
}

// WithSession returns a copy of c sending requests through the session's client.
func (c *Client) WithSession(s *transcript.Session) (transcript.Source, error) {
	if s == nil || s.Client == nil {
		return nil, ErrSessionUnusable
	}
	return &Client{http: s.Client, baseURL: c.baseURL}, nil
}

// List enumerates the video's transcripts.
func (c *Client) List(ctx context.Context, videoID string) (transcript.Listing, error) {
	return c.ListTranscripts(ctx, videoID)
}

// ListTranscripts is List with the concrete return type.
func (c *Client) ListTranscripts(ctx context.Context, videoID string) (*TranscriptList, error) {
	captions, err := captionsFor(ctx, c, videoID)
	if err != nil {
		return nil, err
	}
	return newTranscriptList(c, videoID, captions), nil
}

// Fetch returns the first transcript matching languages in priority order,
// manual tracks before generated ones for each language.
func (c *Client) Fetch(ctx context.Context, videoID string, languages []string) ([]transcript.Record, error) {
	list, err := c.ListTranscripts(ctx, videoID)
	if err != nil {
		return nil, err
	}
	t, err := list.Find(languages...)
	if err != nil {
		return nil, err
	}
	return t.Fetch(ctx)
}
