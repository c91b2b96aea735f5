package sources

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeYouTube serves the watch page, Innertube player, and timedtext
// endpoints for a handful of canned video IDs.
type fakeYouTube struct {
	srv *httptest.Server

	mu          sync.Mutex
	watchCookie map[string]string // videoID → last Cookie header seen on /watch
}

const timedTextEN = `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
	`<text start="0.0" dur="1.5">Hey &amp;#39;there&amp;#39;</text>` +
	`<text start="1.5">&lt;b&gt;bold&lt;/b&gt; line</text>` +
	`<text start="3" dur="1"></text>` +
	`</transcript>`

const timedTextDE = `<transcript><text start="0" dur="2">Hallo Welt</text></transcript>`

const timedTextTranslated = `<transcript><text start="0" dur="2">Hello world</text></transcript>`

func newFakeYouTube(t *testing.T) *fakeYouTube {
	t.Helper()
	f := &fakeYouTube{watchCookie: map[string]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", f.watch)
	mux.HandleFunc("/youtubei/v1/player", f.player)
	mux.HandleFunc("/api/timedtext", f.timedtext)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeYouTube) client() *Client {
	return NewClient(f.srv.Client(), f.srv.URL)
}

func (f *fakeYouTube) cookieFor(videoID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watchCookie[videoID]
}

func (f *fakeYouTube) sawWatch(videoID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.watchCookie[videoID]
	return ok
}

func (f *fakeYouTube) watch(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("v")
	cookie := r.Header.Get("Cookie")
	f.mu.Lock()
	f.watchCookie[id] = cookie
	f.mu.Unlock()

	switch id {
	case "missing":
		http.NotFound(w, r)
		return
	case "ratelimited":
		w.WriteHeader(http.StatusTooManyRequests)
		return
	case "captcha":
		fmt.Fprint(w, `<html><body><div class="g-recaptcha" data-sitekey="x"></div></body></html>`)
		return
	case "consent":
		if !strings.Contains(cookie, "CONSENT=YES+cb.20240101") {
			fmt.Fprint(w, `<form action="https://consent.youtube.com/s" method="POST"><input type="hidden" name="v" value="cb.20240101"></form>`)
			return
		}
	case "consentloop":
		fmt.Fprint(w, `<form action="https://consent.youtube.com/s" method="POST"><input type="hidden" name="v" value="cb.1"></form>`)
		return
	case "untitled":
		fmt.Fprint(w, `<html><head><title>YouTube</title></head><script>"INNERTUBE_API_KEY":"testkey"</script></html>`)
		return
	}
	fmt.Fprint(w, `<html><head><title>Test Video &amp; Friends - YouTube</title></head>`+
		`<body><script>ytcfg.set({"INNERTUBE_API_KEY": "testkey"});</script></body></html>`)
}

func (f *fakeYouTube) player(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Query().Get("key") != "testkey" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	var req struct {
		VideoID string `json:"videoId"`
		Context struct {
			Client struct {
				ClientName string `json:"clientName"`
			} `json:"client"`
		} `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Context.Client.ClientName != "ANDROID" {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch req.VideoID {
	case "nocaps":
		fmt.Fprint(w, `{"playabilityStatus":{"status":"OK"}}`)
	case "botcheck":
		fmt.Fprint(w, `{"playabilityStatus":{"status":"LOGIN_REQUIRED","reason":"Sign in to confirm you're not a bot"}}`)
	case "agegate":
		fmt.Fprint(w, `{"playabilityStatus":{"status":"LOGIN_REQUIRED","reason":"This video may be inappropriate for some users."}}`)
	case "gone":
		fmt.Fprint(w, `{"playabilityStatus":{"status":"ERROR","reason":"This video is unavailable"}}`)
	case "private":
		fmt.Fprint(w, `{"playabilityStatus":{"status":"UNPLAYABLE","reason":"Video is private"}}`)
	case "potoken":
		fmt.Fprintf(w, `{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[`+
			`{"baseUrl":"%s/api/timedtext?v=potoken&lang=en&exp=xpe","name":{"simpleText":"English"},"languageCode":"en"}]}}}`, f.srv.URL)
	default:
		fmt.Fprintf(w, `{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{`+
			`"captionTracks":[`+
			`{"baseUrl":"%[1]s/api/timedtext?v=%[2]s&lang=de&fmt=srv3","name":{"simpleText":"German"},"languageCode":"de","isTranslatable":true},`+
			`{"baseUrl":"%[1]s/api/timedtext?v=%[2]s&lang=en&kind=asr","name":{"runs":[{"text":"English (auto-generated)"}]},"languageCode":"en","kind":"asr"}],`+
			`"translationLanguages":[{"languageCode":"en","languageName":{"simpleText":"English"}},{"languageCode":"fr","languageName":{"runs":[{"text":"French"}]}}]`+
			`}}}`, f.srv.URL, req.VideoID)
	}
}

func (f *fakeYouTube) timedtext(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("fmt") != "" {
		http.Error(w, "srv3 not supported", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	switch {
	case q.Get("tlang") == "en":
		fmt.Fprint(w, timedTextTranslated)
	case q.Get("lang") == "de":
		fmt.Fprint(w, timedTextDE)
	case q.Get("lang") == "en":
		fmt.Fprint(w, timedTextEN)
	default:
		http.NotFound(w, r)
	}
}
