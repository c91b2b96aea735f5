package transcript

import (
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_watchless/internal/engine"
)

// Session is a request-scoped HTTP client carrying a cookie jar.
type Session struct {
	Client *http.Client
	Jar    http.CookieJar
	Source string // "file" or "payload", for logs
}

// BuildSession materializes src into a new session derived from base.
// It returns nil when no cookies are configured or loading fails; the
// request then proceeds unauthenticated.
func BuildSession(src CookieSource, base *http.Client) *Session {
	jar, err := MaterializeCookies(src)
	if err != nil {
		engine.IncrCookieLoadErrors()
		slog.Warn("cookies: load failed, continuing without session", slog.Any("error", err))
		return nil
	}
	if jar == nil {
		return nil
	}
	if base == nil {
		base = http.DefaultClient
	}
	client := *base
	client.Jar = jar
	return &Session{Client: &client, Jar: jar, Source: src.origin()}
}
