package sources

// YouTube implementation is split across files by responsibility:
//   youtube_innertube.go  — Innertube player types, constants, and watch page primitives
//   youtube_errors.go     — TranscriptError and the failure causes it wraps
//   youtube_transcript.go — Client: the session-bindable transcript source
//   youtube_list.go       — TranscriptList / Transcript / Snippet and timedtext parsing
//   youtube_legacy.go     — LegacyClient: the older surface over the same data
//   youtube_title.go      — video title lookup from the watch page
//   youtube_videoid.go    — video ID extraction from URLs
