package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_watchless/internal/engine"
)

// YouTube Innertube API — constants, types, and the watch page / player primitives.

const (
	ytPlayerPath     = "/youtubei/v1/player"
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"
	ytConsentAction  = `action="https://consent.youtube.com/s"`
	ytRecaptchaClass = `class="g-recaptcha"`
)

var (
	innertubeKeyRE = regexp.MustCompile(`"INNERTUBE_API_KEY":\s*"([a-zA-Z0-9_-]+)"`)
	consentValueRE = regexp.MustCompile(`name="v" value="(.*?)"`)
)

// --- ANDROID client types (/player endpoint) ---

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type innertubePlayerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer captionsRenderer `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *playabilityStatus `json:"playabilityStatus"`
}

type playabilityStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type captionsRenderer struct {
	CaptionTracks        []captionTrack        `json:"captionTracks"`
	TranslationLanguages []translationLanguage `json:"translationLanguages"`
}

type captionTrack struct {
	BaseURL        string `json:"baseUrl"`
	Name           ytText `json:"name"`
	LanguageCode   string `json:"languageCode"`
	Kind           string `json:"kind"` // "asr" = auto-generated
	IsTranslatable bool   `json:"isTranslatable"`
}

type translationLanguage struct {
	LanguageCode string `json:"languageCode"`
	LanguageName ytText `json:"languageName"`
}

// ytText is YouTube's text object: either simpleText or a list of runs.
type ytText struct {
	SimpleText string `json:"simpleText"`
	Runs       []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (t ytText) String() string {
	if t.SimpleText != "" {
		return t.SimpleText
	}
	var sb strings.Builder
	for _, r := range t.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// fetchWatchHTML loads the watch page, accepting the EU consent interstitial
// once if YouTube serves it.
// watchPath is the watch page path with videoID escaped as a query value.
func watchPath(videoID string) string {
	return "/watch?v=" + url.QueryEscape(videoID)
}

func fetchWatchHTML(ctx context.Context, c *Client, videoID string) (string, error) {
	watchURL := c.url(watchPath(videoID))
	body, err := engine.FetchPage(ctx, c.http, watchURL, nil)
	if err != nil {
		return "", requestError(videoID, err)
	}
	html := string(body)
	if !strings.Contains(html, ytConsentAction) {
		return html, nil
	}

	m := consentValueRE.FindStringSubmatch(html)
	if len(m) < 2 {
		return "", newTranscriptError(videoID, ErrFailedToCreateConsentCookie, "")
	}
	body, err = engine.FetchPage(ctx, c.http, watchURL, map[string]string{"Cookie": "CONSENT=YES+" + m[1]})
	if err != nil {
		return "", requestError(videoID, err)
	}
	html = string(body)
	if strings.Contains(html, ytConsentAction) {
		return "", newTranscriptError(videoID, ErrFailedToCreateConsentCookie, "")
	}
	return html, nil
}

// extractInnertubeKey pulls the API key out of the watch page.
func extractInnertubeKey(html, videoID string) (string, error) {
	if m := innertubeKeyRE.FindStringSubmatch(html); len(m) == 2 {
		return m[1], nil
	}
	if strings.Contains(html, ytRecaptchaClass) {
		return "", newTranscriptError(videoID, ErrIPBlocked, "")
	}
	return "", newTranscriptError(videoID, ErrYouTubeDataUnparsable, "INNERTUBE_API_KEY not found")
}

// fetchPlayer POSTs to the ANDROID Innertube /player endpoint.
func fetchPlayer(ctx context.Context, c *Client, videoID, apiKey string) (*innertubePlayerResp, error) {
	payload := innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	}
	data, err := engine.PostJSON(ctx, c.http, c.url(ytPlayerPath+"?key="+apiKey+"&prettyPrint=false"), payload, map[string]string{
		"User-Agent":               ytAndroidUA,
		"X-Youtube-Client-Name":    "3",
		"X-Youtube-Client-Version": ytAndroidVersion,
	})
	if err != nil {
		return nil, requestError(videoID, err)
	}
	var resp innertubePlayerResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, newTranscriptError(videoID, ErrYouTubeDataUnparsable, err.Error())
	}
	return &resp, nil
}

// checkPlayability maps a non-OK playability status onto a failure cause.
func checkPlayability(status *playabilityStatus, videoID string) error {
	if status == nil || status.Status == "" || status.Status == "OK" {
		return nil
	}
	reason := status.Reason
	switch status.Status {
	case "LOGIN_REQUIRED":
		if strings.Contains(reason, "not a bot") {
			return newTranscriptError(videoID, ErrRequestBlocked, "")
		}
		if strings.Contains(reason, "inappropriate") {
			return newTranscriptError(videoID, ErrAgeRestricted, "")
		}
	case "ERROR":
		return newTranscriptError(videoID, ErrVideoUnavailable, "")
	}
	return newTranscriptError(videoID, ErrVideoUnplayable, reason)
}

// captionsFor runs the watch page → player → captions sequence.
func captionsFor(ctx context.Context, c *Client, videoID string) (*captionsRenderer, error) {
	if strings.HasPrefix(videoID, "http://") || strings.HasPrefix(videoID, "https://") {
		return nil, newTranscriptError(videoID, ErrInvalidVideoID, "")
	}
	html, err := fetchWatchHTML(ctx, c, videoID)
	if err != nil {
		return nil, err
	}
	apiKey, err := extractInnertubeKey(html, videoID)
	if err != nil {
		return nil, err
	}
	player, err := fetchPlayer(ctx, c, videoID, apiKey)
	if err != nil {
		return nil, err
	}
	if err := checkPlayability(player.PlayabilityStatus, videoID); err != nil {
		return nil, err
	}
	if player.Captions == nil || len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return nil, newTranscriptError(videoID, ErrTranscriptsDisabled, "")
	}
	return &player.Captions.PlayerCaptionsTracklistRenderer, nil
}
