// Command vodsync resolves a single clip or VOD link against a streamer's VODs
// and prints the timestamped VOD link.
//
//	vodsync [--config FILE] [--json] [--timeout 10s] <streamer> <url>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/config"
	"github.com/Jonathanpatta/twitch-clip-vod-sync/vod"
)

var version = "v0.0.0"

type cli struct {
	Config   string           `help:"YAML config file overlaid on the environment." type:"path" env:"CONFIG_FILE"`
	JSON     bool             `help:"Print the full result as JSON."`
	Timeout  time.Duration    `help:"Deadline for all Twitch requests (default from REQUEST_TIMEOUT)."`
	Version  kong.VersionFlag `help:"Print version and exit."`
	Streamer string           `arg:"" help:"Login of the streamer whose VOD to search."`
	URL      string           `arg:"" name:"url" help:"Clip or VOD link (clips.twitch.tv/<slug> or twitch.tv/videos/<id>?t=1h2m3s)."`
}

func main() {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("vodsync"),
		kong.Description("Find the moment of a Twitch clip or VOD in another streamer's VOD."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err != nil {
		panic(err)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	os.Exit(run(c, os.Stdout, os.Stderr))
}

func run(c cli, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	lvl := slog.LevelWarn
	if strings.ToLower(os.Getenv("LOG_LEVEL")) == "debug" {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl})))

	cfg, err := config.LoadFile(c.Config)
	if err != nil {
		fmt.Fprintf(stderr, "ERR: %s\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "ERR: %s\n", err)
		return 1
	}
	if c.Timeout > 0 {
		cfg.RequestTimeout = c.Timeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	syncer := vod.NewSyncer(vod.NewHelixGateway(cfg.HelixClient(), cfg.VODPageSize))
	res, err := syncer.Sync(ctx, strings.ToLower(c.Streamer), c.URL)
	if err != nil {
		fmt.Fprintf(stderr, "ERR: %s\n", err)
		return exitCode(err)
	}
	if err := printResult(stdout, res, c.JSON); err != nil {
		fmt.Fprintf(stderr, "ERR: %s\n", err)
		return 1
	}
	return 0
}

// exitCode is 2 for bad input and 1 for everything else.
func exitCode(err error) int {
	if vod.Classify(err) == vod.ErrorClassInvalidInput {
		return 2
	}
	return 1
}

type jsonResult struct {
	URL      string    `json:"url"`
	Streamer string    `json:"streamer"`
	VODID    string    `json:"vod_id"`
	Offset   string    `json:"offset"`
	Moment   time.Time `json:"moment"`
}

func printResult(w io.Writer, res vod.Result, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, res.URL)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{
		URL:      res.URL,
		Streamer: res.Streamer.DisplayName,
		VODID:    res.Match.Broadcast.ID,
		Offset:   res.Match.Offset.String(),
		Moment:   res.Moment,
	})
}
