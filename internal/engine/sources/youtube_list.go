package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_watchless/internal/engine"
	"github.com/anatolykoptev/go_watchless/internal/engine/transcript"
)

// Snippet is one caption line. It implements transcript.SegmentRecord.
type Snippet struct {
	Text     string
	Start    float64
	Duration float64
}

func (s Snippet) SegmentText() string      { return s.Text }
func (s Snippet) SegmentStart() float64    { return s.Start }
func (s Snippet) SegmentDuration() float64 { return s.Duration }

// TranslationLanguage is a target offered for translatable tracks.
type TranslationLanguage struct {
	Code string
	Name string
}

// Transcript is one caption track of a video.
type Transcript struct {
	client               *Client
	videoID              string
	url                  string
	Language             string
	Code                 string
	IsGenerated          bool
	TranslationLanguages []TranslationLanguage
}

// LanguageCode implements transcript.Track.
func (t *Transcript) LanguageCode() string { return t.Code }

// IsTranslatable reports whether YouTube offers machine translation for the track.
func (t *Transcript) IsTranslatable() bool { return len(t.TranslationLanguages) > 0 }

// Translate implements transcript.Track.
func (t *Transcript) Translate(languageCode string) (transcript.Track, error) {
	return t.TranslateTo(languageCode)
}

// TranslateTo returns the track translated to languageCode.
func (t *Transcript) TranslateTo(languageCode string) (*Transcript, error) {
	if !t.IsTranslatable() {
		return nil, newTranscriptError(t.videoID, ErrNotTranslatable, "")
	}
	for _, tl := range t.TranslationLanguages {
		if tl.Code == languageCode {
			return &Transcript{
				client:      t.client,
				videoID:     t.videoID,
				url:         t.url + "&tlang=" + languageCode,
				Language:    tl.Name,
				Code:        languageCode,
				IsGenerated: t.IsGenerated,
			}, nil
		}
	}
	return nil, newTranscriptError(t.videoID, ErrTranslationLanguageNotAvailable, languageCode)
}

// Fetch implements transcript.Track.
func (t *Transcript) Fetch(ctx context.Context) ([]transcript.Record, error) {
	snippets, err := t.Snippets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transcript.Record, len(snippets))
	for i, s := range snippets {
		out[i] = s
	}
	return out, nil
}

// Snippets downloads and parses the track's timedtext XML.
func (t *Transcript) Snippets(ctx context.Context) ([]Snippet, error) {
	if strings.Contains(t.url, "&exp=xpe") {
		return nil, newTranscriptError(t.videoID, ErrPoTokenRequired, "")
	}
	body, err := engine.FetchPage(ctx, t.client.http, t.url, nil)
	if err != nil {
		return nil, requestError(t.videoID, err)
	}
	snippets, err := parseTimedText(body)
	if err != nil {
		return nil, newTranscriptError(t.videoID, ErrYouTubeDataUnparsable, err.Error())
	}
	return snippets, nil
}

func (t *Transcript) String() string {
	suffix := ""
	if t.IsTranslatable() {
		suffix = "[TRANSLATABLE]"
	}
	return fmt.Sprintf("%s (%s)%s", t.Code, t.Language, suffix)
}

// --- Timedtext XML ---

type ytTimedText struct {
	Lines []ytLine `xml:"text"`
}

type ytLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// parseTimedText decodes <text start dur> elements. Entities are unescaped
// after XML decoding, markup is stripped, and empty lines are skipped.
func parseTimedText(body []byte) ([]Snippet, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	out := make([]Snippet, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := engine.CleanHTML(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		out = append(out, Snippet{
			Text:     text,
			Start:    parseSeconds(line.Start),
			Duration: parseSeconds(line.Dur),
		})
	}
	return out, nil
}

func parseSeconds(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// TranscriptList is the enumeration of a video's caption tracks.
// It implements transcript.Listing.
type TranscriptList struct {
	VideoID   string
	manual    []*Transcript
	generated []*Transcript
}

func newTranscriptList(c *Client, videoID string, captions *captionsRenderer) *TranscriptList {
	langs := make([]TranslationLanguage, 0, len(captions.TranslationLanguages))
	for _, tl := range captions.TranslationLanguages {
		langs = append(langs, TranslationLanguage{Code: tl.LanguageCode, Name: tl.LanguageName.String()})
	}

	list := &TranscriptList{VideoID: videoID}
	for _, track := range captions.CaptionTracks {
		t := &Transcript{
			client:      c,
			videoID:     videoID,
			url:         strings.ReplaceAll(track.BaseURL, "&fmt=srv3", ""),
			Language:    track.Name.String(),
			Code:        track.LanguageCode,
			IsGenerated: track.Kind == "asr",
		}
		if track.IsTranslatable {
			t.TranslationLanguages = langs
		}
		if t.IsGenerated {
			list.generated = append(list.generated, t)
		} else {
			list.manual = append(list.manual, t)
		}
	}
	return list
}

// FindTranscript implements transcript.Listing.
func (l *TranscriptList) FindTranscript(languages ...string) (transcript.Track, error) {
	t, err := l.Find(languages...)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Find returns the first track in languages order; for each language a
// manually created track wins over a generated one.
func (l *TranscriptList) Find(languages ...string) (*Transcript, error) {
	return l.find(languages, l.manual, l.generated)
}

// FindManuallyCreated is Find restricted to manually created tracks.
func (l *TranscriptList) FindManuallyCreated(languages ...string) (*Transcript, error) {
	return l.find(languages, l.manual)
}

// FindGenerated is Find restricted to auto-generated tracks.
func (l *TranscriptList) FindGenerated(languages ...string) (*Transcript, error) {
	return l.find(languages, l.generated)
}

func (l *TranscriptList) find(languages []string, groups ...[]*Transcript) (*Transcript, error) {
	for _, lang := range languages {
		for _, group := range groups {
			for _, t := range group {
				if t.Code == lang {
					return t, nil
				}
			}
		}
	}
	return nil, newTranscriptError(l.VideoID, ErrNoTranscriptFound, fmt.Sprintf("%v; available: %s", languages, l.available()))
}

// Tracks implements transcript.Listing: manual tracks first, then generated.
func (l *TranscriptList) Tracks() []transcript.Track {
	out := make([]transcript.Track, 0, len(l.manual)+len(l.generated))
	for _, t := range l.manual {
		out = append(out, t)
	}
	for _, t := range l.generated {
		out = append(out, t)
	}
	return out
}

func (l *TranscriptList) available() string {
	var codes []string
	for _, t := range l.manual {
		codes = append(codes, t.Code)
	}
	for _, t := range l.generated {
		codes = append(codes, t.Code+"(generated)")
	}
	if len(codes) == 0 {
		return "none"
	}
	return strings.Join(codes, ", ")
}
