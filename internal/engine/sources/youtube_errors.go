package sources

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anatolykoptev/go_watchless/internal/engine"
)

// Failure causes. Every error returned by the YouTube sources is a
// *TranscriptError wrapping one of these.
var (
	ErrInvalidVideoID                  = errors.New("You provided an invalid video id. Make sure you are using the video id and NOT the url!")
	ErrIPBlocked                       = errors.New("YouTube is blocking requests from your IP. Cloud provider IPs are commonly blocked; try authenticating with cookies or a residential proxy")
	ErrRequestBlocked                  = errors.New("YouTube is blocking requests from your IP (bot check)")
	ErrAgeRestricted                   = errors.New("This video is age-restricted. Therefore, you are unable to retrieve transcripts for it without authenticating yourself")
	ErrVideoUnavailable                = errors.New("The video is no longer available")
	ErrVideoUnplayable                 = errors.New("The video is unplayable")
	ErrTranscriptsDisabled             = errors.New("Subtitles are disabled for this video")
	ErrNoTranscriptFound               = errors.New("No transcripts were found for any of the requested language codes")
	ErrNotTranslatable                 = errors.New("The requested language is not translatable")
	ErrTranslationLanguageNotAvailable = errors.New("The requested translation language is not available")
	ErrFailedToCreateConsentCookie     = errors.New("Failed to automatically give consent to saving cookies")
	ErrPoTokenRequired                 = errors.New("The requested video cannot be retrieved without a PO Token")
	ErrYouTubeRequestFailed            = errors.New("Request to YouTube failed")
	ErrYouTubeDataUnparsable           = errors.New("The data required to fetch the transcript is not parsable")
	ErrSessionUnusable                 = errors.New("session has no HTTP client")
)

// TranscriptError is a failure to retrieve any transcript for a video.
type TranscriptError struct {
	VideoID string
	Cause   error
	Detail  string // optional, appended to the cause text
}

func (e *TranscriptError) Error() string {
	cause := e.Cause.Error()
	if e.Detail != "" {
		cause += ": " + e.Detail
	}
	return fmt.Sprintf("Could not retrieve a transcript for the video %s! This is most likely caused by:\n\n%s",
		engine.WatchURL(e.VideoID), cause)
}

func (e *TranscriptError) Unwrap() error { return e.Cause }

func newTranscriptError(videoID string, cause error, detail string) *TranscriptError {
	return &TranscriptError{VideoID: videoID, Cause: cause, Detail: detail}
}

// requestError maps a transport or status failure onto a TranscriptError.
func requestError(videoID string, err error) error {
	var te *TranscriptError
	if errors.As(err, &te) {
		return err
	}
	var se *engine.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
		return newTranscriptError(videoID, ErrIPBlocked, "")
	}
	return newTranscriptError(videoID, ErrYouTubeRequestFailed, err.Error())
}
