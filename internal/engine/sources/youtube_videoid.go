package sources

import (
	"regexp"
	"strings"
)

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID pulls the 11-char video ID out of any YouTube URL form.
// Input that is not a recognized URL is returned trimmed, as is.
func ExtractVideoID(input string) string {
	input = strings.TrimSpace(input)
	if m := videoIDRE.FindStringSubmatch(input); len(m) >= 2 {
		return m[1]
	}
	return input
}
