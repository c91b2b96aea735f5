package engine

import (
	"fmt"
	"strings"
)

// FormatTimestamp renders whole seconds as MM:SS, or HH:MM:SS once the hour
// component is non-zero. Fractions are truncated.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	h, rem := total/3600, total%3600
	m, s := rem/60, rem%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// TranscriptText joins segments into one "[MM:SS] text" line per segment.
// Line breaks inside a caption are folded so each segment stays on one line.
func TranscriptText(segments []Segment) string {
	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = "[" + FormatTimestamp(seg.Start) + "] " + CollapseSpace(seg.Text)
	}
	return strings.Join(lines, "\n")
}
