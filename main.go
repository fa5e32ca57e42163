// Command twitch-clip-vod-sync is the service entrypoint.
// It:
//   - Loads configuration and initializes structured logging.
//   - Builds the Helix-backed resolver that maps a clip/VOD moment onto
//     another streamer's VOD.
//   - Starts the Twitch chat bot when bot credentials and channels are set.
//   - Exposes an HTTP server with /sync, /healthz, /readyz and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/chat"
	"github.com/Jonathanpatta/twitch-clip-vod-sync/config"
	"github.com/Jonathanpatta/twitch-clip-vod-sync/server"
	"github.com/Jonathanpatta/twitch-clip-vod-sync/telemetry"
	"github.com/Jonathanpatta/twitch-clip-vod-sync/vod"
)

const version = "1.0.0"

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		// unknown level -> keep info but note once using temporary logger
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", slog.String("level", lvl.String()), slog.String("format", map[bool]string{true: "json", false: "text"}[format == "json"]))

	// Config
	cfg, err := config.LoadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config invalid", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("twitch-clip-vod-sync", version)
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	helix := cfg.HelixClient()

	// Best-effort: warm the app token so misconfigured credentials show up at boot.
	ctx2, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	if tok, err := helix.AppTokenSource.Get(ctx2); err != nil {
		slog.Warn("twitch app token fetch failed", slog.Any("err", err))
	} else if len(tok) > 6 {
		slog.Info("twitch app token acquired", slog.String("tail", "***"+tok[len(tok)-6:]))
	}
	cancel()

	syncer := vod.NewSyncer(vod.NewHelixGateway(helix, cfg.VODPageSize))

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go chat.StartBot(ctx, cfg, syncer)

	handlers := server.NewHandlers(syncer, helix.AppTokenSource, cfg.RequestTimeout)
	go func() {
		if err := server.Start(ctx, server.NewMux(ctx, handlers), cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
			stop()
		}
	}()

	// Block until shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")
}
