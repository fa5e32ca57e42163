package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"github.com/google/uuid"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/config"
	"github.com/Jonathanpatta/twitch-clip-vod-sync/telemetry"
	"github.com/Jonathanpatta/twitch-clip-vod-sync/vod"
)

// Syncer is the resolution the bot runs for each command.
type Syncer interface {
	Sync(ctx context.Context, login, rawURL string) (vod.Result, error)
}

// commands are the names the bot answers to, without prefix.
var commands = map[string]bool{"sync": true, "vod": true}

// Command is a parsed chat command.
type Command struct {
	Name     string
	Streamer string
	URL      string
}

// ParseCommand parses "<prefix>sync <streamer> <url>". ok is false when text
// is not addressed to the bot. Missing arguments leave Streamer or URL empty.
func ParseCommand(prefix, text string) (cmd Command, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], prefix) {
		return Command{}, false
	}
	name := strings.ToLower(strings.TrimPrefix(fields[0], prefix))
	if !commands[name] {
		return Command{}, false
	}
	cmd.Name = name
	if len(fields) > 1 {
		cmd.Streamer = strings.ToLower(strings.TrimPrefix(fields[1], "@"))
	}
	if len(fields) > 2 {
		cmd.URL = fields[2]
	}
	return cmd, true
}

// Bot answers sync commands in Twitch chat.
type Bot struct {
	Syncer  Syncer
	Prefix  string
	Timeout time.Duration
}

// Handle runs cmd and returns the chat reply for user.
func (b *Bot) Handle(ctx context.Context, user string, cmd Command) string {
	telemetry.ObserveChatCommand(cmd.Name)
	if cmd.Streamer == "" || cmd.URL == "" {
		return "@" + user + " " + b.usage(cmd.Name)
	}
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}
	res, err := b.Syncer.Sync(ctx, cmd.Streamer, cmd.URL)
	if err != nil {
		return "@" + user + " " + b.errorReply(cmd, err)
	}
	return "@" + user + " " + res.URL
}

func (b *Bot) usage(name string) string {
	return "usage: " + b.Prefix + name + " <streamer> <clip or vod url>"
}

func (b *Bot) errorReply(cmd Command, err error) string {
	switch vod.Classify(err) {
	case vod.ErrorClassInvalidInput:
		return b.usage(cmd.Name)
	case vod.ErrorClassNotFound, vod.ErrorClassNoMatch:
		return err.Error()
	default:
		return "could not reach Twitch, try again later"
	}
}

// StartBot connects to Twitch IRC and answers commands in cfg.TwitchChannels
// until ctx is cancelled. Each command is handled on its own goroutine so a
// slow Helix call never stalls the IRC reader.
func StartBot(ctx context.Context, cfg *config.Config, syncer Syncer) {
	if !cfg.ChatEnabled() {
		slog.Info("chat bot disabled (missing TWITCH_BOT_USERNAME, TWITCH_OAUTH_TOKEN or TWITCH_CHANNELS)")
		return
	}
	client := twitch.NewClient(cfg.TwitchBotUsername, cfg.TwitchOAuthToken)
	bot := &Bot{Syncer: syncer, Prefix: cfg.CommandPrefix, Timeout: cfg.RequestTimeout}

	client.OnPrivateMessage(func(msg twitch.PrivateMessage) {
		cmd, ok := ParseCommand(bot.Prefix, msg.Message)
		if !ok {
			return
		}
		go func() {
			mctx := telemetry.WithCorrelation(ctx, uuid.New().String())
			telemetry.LoggerWithCorr(mctx).Debug("chat command",
				slog.String("channel", msg.Channel),
				slog.String("user", msg.User.Name),
				slog.String("command", cmd.Name),
				slog.String("component", "chat"))
			user := msg.User.DisplayName
			if user == "" {
				user = msg.User.Name
			}
			client.Say(msg.Channel, bot.Handle(mctx, user, cmd))
		}()
	})
	client.OnConnect(func() {
		slog.Info("chat bot connected", slog.Any("channels", cfg.TwitchChannels))
	})

	// Handle context cancellation by closing the client
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := client.Disconnect(); err != nil {
			slog.Debug("chat disconnect", slog.Any("err", err))
		}
		close(done)
	}()

	client.Join(cfg.TwitchChannels...)
	if err := client.Connect(); err != nil && ctx.Err() == nil {
		slog.Error("twitch chat connect error", slog.Any("err", err))
	}
	<-done
}
