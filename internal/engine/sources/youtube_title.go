package sources

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anatolykoptev/go_watchless/internal/engine"
)

// UnknownTitle is returned whenever the title cannot be determined.
const UnknownTitle = "Unknown Video"

const ytTitleSuffix = " - YouTube"

// Title returns the video's title from its watch page, or UnknownTitle.
// It never fails; lookups go through the engine title cache.
func (c *Client) Title(ctx context.Context, videoID string) string {
	if title, ok := engine.CacheGetTitle(ctx, videoID); ok {
		return title
	}
	engine.IncrTitleLookups()

	body, err := engine.FetchPage(ctx, c.http, c.url(watchPath(videoID)), nil)
	if err != nil {
		engine.IncrTitleFailures()
		slog.Debug("youtube: title fetch failed", slog.String("video_id", videoID), slog.Any("error", err))
		return UnknownTitle
	}
	title, ok := parseVideoTitle(body)
	if !ok {
		engine.IncrTitleFailures()
		return UnknownTitle
	}
	engine.CacheSetTitle(ctx, videoID, title)
	return title
}

// parseVideoTitle extracts "X" from <title>X - YouTube</title>.
func parseVideoTitle(body []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	raw := strings.TrimSpace(doc.Find("title").First().Text())
	title, ok := strings.CutSuffix(raw, ytTitleSuffix)
	if !ok || title == "" {
		return "", false
	}
	return title, true
}
