// Package transcriptserver exposes the transcript pipeline as MCP tools.
package transcriptserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_watchless/internal/engine"
	"github.com/anatolykoptev/go_watchless/internal/engine/sources"
	"github.com/anatolykoptev/go_watchless/internal/pipeline"
)

// RegisterTools registers youtube_transcript on the given MCP server.
func RegisterTools(server *mcp.Server, svc *pipeline.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript",
		Description: "Fetch the transcript of a YouTube video with timestamps. Tries preferred languages first, then English, then a translation to English, then any available track. Optionally generates Obsidian-ready technical documentation from the transcript.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, handleTranscript(svc))
}

func handleTranscript(svc *pipeline.Service) func(context.Context, *mcp.CallToolRequest, engine.TranscriptInput) (*mcp.CallToolResult, engine.TranscriptOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TranscriptInput) (*mcp.CallToolResult, engine.TranscriptOutput, error) {
		videoID := sources.ExtractVideoID(input.VideoID)
		if videoID == "" {
			return nil, engine.TranscriptOutput{}, errors.New("video_id is required")
		}

		res, err := svc.Run(ctx, pipeline.Request{VideoID: videoID, Summarize: input.Summarize})
		if err != nil {
			return nil, engine.TranscriptOutput{}, err
		}

		out := engine.TranscriptOutput{
			VideoID:    res.VideoID,
			Title:      res.Title,
			URL:        engine.WatchURL(res.VideoID),
			Transcript: res.Transcript,
			Text:       engine.TranscriptText(res.Transcript),
		}
		if res.Summary != nil {
			out.Summary = *res.Summary
		}
		return nil, out, nil
	}
}
