package engine

// Segment is one timed unit of a transcript, in seconds.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// VideoMeta describes the video a transcript belongs to.
type VideoMeta struct {
	ID    string
	Title string
	URL   string
}

// NewVideoMeta builds metadata with the public watch URL filled in.
func NewVideoMeta(videoID, title string) VideoMeta {
	return VideoMeta{ID: videoID, Title: title, URL: WatchURL(videoID)}
}

// TranscriptInput is the youtube_transcript tool input.
type TranscriptInput struct {
	VideoID   string `json:"video_id" jsonschema:"YouTube video ID or URL (e.g. dQw4w9WgXcQ, https://youtu.be/dQw4w9WgXcQ)"`
	Summarize bool   `json:"summarize,omitempty" jsonschema:"Also generate Obsidian-ready technical documentation from the transcript"`
}

// TranscriptOutput is the youtube_transcript tool output.
type TranscriptOutput struct {
	VideoID    string    `json:"video_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Transcript []Segment `json:"transcript"`
	Text       string    `json:"text"`
	Summary    string    `json:"summary,omitempty"`
}
