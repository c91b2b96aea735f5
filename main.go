// go_watchless: YouTube transcript and documentation service.
//
// Serves GET /api/transcript over HTTP (gin) and, when MCP_PORT is set,
// the same pipeline as the youtube_transcript MCP tool.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_watchless/internal/apiserver"
	"github.com/anatolykoptev/go_watchless/internal/engine"
	"github.com/anatolykoptev/go_watchless/internal/engine/sources"
	"github.com/anatolykoptev/go_watchless/internal/engine/transcript"
	"github.com/anatolykoptev/go_watchless/internal/pipeline"
	"github.com/anatolykoptev/go_watchless/internal/transcriptserver"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", slog.Any("error", err))
	}
	setupLogging(env.Str("LOG_LEVEL", "info"), env.Str("LOG_FORMAT", "text"))

	c, err := initEngine()
	if err != nil {
		slog.Error("engine init failed", slog.Any("error", err))
		os.Exit(1)
	}

	svc, err := newService(c)
	if err != nil {
		slog.Error("pipeline init failed", slog.Any("error", err))
		os.Exit(1)
	}

	if mcpPort := env.Str("MCP_PORT", ""); mcpPort != "" {
		go runMCP(svc, mcpPort)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serveHTTP(ctx, env.Str("PORT", "5328"), apiserver.NewRouter(svc, version)); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func setupLogging(level, format string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))

	if lvl > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
}

func initEngine() (engine.Config, error) {
	apiKey := env.Str("OPENROUTER_API_KEY", "")
	if apiKey == "" {
		apiKey = env.Str("OPENAI_API_KEY", "")
	}
	c := engine.Config{
		YouTubeBaseURL: env.Str("YOUTUBE_BASE_URL", engine.DefaultYouTubeBaseURL),
		LLMAPIKey:      apiKey,
		LLMAPIBase:     env.Str("LLM_API_BASE", "https://openrouter.ai/api/v1"),
		LLMModel:       env.Str("LLM_MODEL", "bytedance-seed/seed-1.6-flash"),
		LLMTemperature: env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:   env.Int("LLM_MAX_TOKENS", 16384),
		LLMReferer:     env.Str("LLM_REFERER", "http://localhost:3000"),
		LLMAppTitle:    env.Str("LLM_APP_TITLE", "WatchLess App"),
		FetchTimeout:   env.Duration("FETCH_TIMEOUT", 20*time.Second),
		FetchRetries:   env.Int("FETCH_RETRIES", 1),
		TitleCacheTTL:  env.Duration("TITLE_CACHE_TTL", 6*time.Hour),
	}

	browserTLS := strings.EqualFold(env.Str("BROWSER_TLS", "false"), "true")
	hc, err := engine.NewHTTPClient(c.FetchTimeout, browserTLS)
	if err != nil {
		return c, err
	}
	c.HTTPClient = hc
	c.LLMClient = engine.NewLLMClient(c)
	if c.LLMClient == nil {
		slog.Warn("no OPENROUTER_API_KEY or OPENAI_API_KEY set, summarization disabled")
	}

	engine.Init(c)
	engine.InitCache(env.Str("REDIS_URL", ""), c.TitleCacheTTL, env.Int("CACHE_MAX_ENTRIES", 1000))

	slog.Info("engine initialized",
		slog.Bool("browser_tls", browserTLS),
		slog.Bool("summarization", c.LLMClient != nil),
		slog.String("llm_model", c.LLMModel))
	return c, nil
}

// newAdapter picks the transcript source surface; "legacy" selects the
// older GetTranscript/ListTranscripts client.
func newAdapter(kind string, c engine.Config) any {
	if strings.EqualFold(kind, "legacy") {
		return sources.NewLegacyClient(c.HTTPClient, c.YouTubeBaseURL)
	}
	return sources.NewClient(c.HTTPClient, c.YouTubeBaseURL)
}

func newService(c engine.Config) (*pipeline.Service, error) {
	resolver, err := transcript.NewResolver(newAdapter(env.Str("TRANSCRIPT_ADAPTER", "modern"), c))
	if err != nil {
		return nil, err
	}
	slog.Info("transcript resolver ready",
		slog.String("capability", resolver.Capability().String()),
		slog.Bool("session_binding", resolver.SupportsSession()))

	cookies := transcript.CookieSource{
		Path:    env.Str("COOKIES_FILE", "cookies.txt"),
		Payload: env.Str("YOUTUBE_COOKIES", ""),
	}
	sessions := func() *transcript.Session {
		return transcript.BuildSession(cookies, c.HTTPClient)
	}

	titles := sources.NewClient(c.HTTPClient, c.YouTubeBaseURL)
	return pipeline.New(resolver, titles, engine.LLMSummarizer{}, sessions), nil
}

func runMCP(svc *pipeline.Service, port string) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_watchless",
		Version: version,
	}, nil)
	transcriptserver.RegisterTools(server, svc)
	slog.Info("mcp tools registered", slog.String("port", port))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_watchless",
		Version:      version,
		Port:         port,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("mcp server failed", slog.Any("error", err))
	}
}

func serveHTTP(ctx context.Context, port string, h http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting go_watchless", slog.String("port", port), slog.String("version", version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
