// Package apiserver exposes the transcript pipeline over HTTP with gin.
package apiserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anatolykoptev/go_watchless/internal/engine"
	"github.com/anatolykoptev/go_watchless/internal/pipeline"
)

// transcriptResponse is the /api/transcript body. Summary is null unless requested.
type transcriptResponse struct {
	Success    bool             `json:"success"`
	VideoID    string           `json:"video_id"`
	Title      string           `json:"title"`
	Transcript []engine.Segment `json:"transcript"`
	Summary    *string          `json:"summary"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(svc *pipeline.Service, version string) *gin.Engine {
	r := gin.New()
	r.Use(recovery(), requestID(), cors(), requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})
	r.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, engine.FormatMetrics())
	})
	r.GET("/api/transcript", transcriptHandler(svc))
	return r
}

func transcriptHandler(svc *pipeline.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := pipeline.Request{
			VideoID:   c.Query("videoId"),
			Summarize: strings.EqualFold(c.DefaultQuery("summarize", "false"), "true"),
		}

		res, err := svc.Run(c.Request.Context(), req)
		if err != nil {
			c.JSON(statusFor(err), errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, transcriptResponse{
			Success:    true,
			VideoID:    res.VideoID,
			Title:      res.Title,
			Transcript: res.Transcript,
			Summary:    res.Summary,
		})
	}
}

// statusFor maps pipeline failures to HTTP codes: 400 for a missing id,
// 500 for everything else.
func statusFor(err error) int {
	if errors.Is(err, pipeline.ErrMissingVideoID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
