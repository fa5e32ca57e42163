// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the binary can run locally with minimal setup.
// Helix credentials are required for any lookup; use Validate before serving.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/twitchapi"
)

// Config is the runtime configuration. YAML tags match the optional config file.
type Config struct {
	// Twitch Helix (app token)
	TwitchClientID     string `yaml:"twitchClientID"`
	TwitchClientSecret string `yaml:"twitchClientSecret"`
	HelixBaseURL       string `yaml:"helixBaseURL"`
	TokenURL           string `yaml:"tokenURL"`

	// Resolution
	VODPageSize    int           `yaml:"vodPageSize"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`

	// HTTP
	HTTPAddr string `yaml:"httpAddr"`

	// Chat bot
	TwitchBotUsername string   `yaml:"twitchBotUsername"`
	TwitchOAuthToken  string   `yaml:"twitchOAuthToken"`
	TwitchChannels    []string `yaml:"twitchChannels"`
	CommandPrefix     string   `yaml:"commandPrefix"`
}

// Load reads environment variables and applies defaults. It doesn't fail if Twitch creds are missing;
// use Validate() before making Helix calls and ChatEnabled() to decide whether to start the bot.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.TwitchClientID = os.Getenv("TWITCH_CLIENT_ID")
	cfg.TwitchClientSecret = os.Getenv("TWITCH_CLIENT_SECRET")
	cfg.HelixBaseURL = os.Getenv("TWITCH_HELIX_URL")
	cfg.TokenURL = os.Getenv("TWITCH_TOKEN_URL")

	if v := os.Getenv("VOD_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VOD_PAGE_SIZE: %w", err)
		}
		cfg.VODPageSize = n
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")

	cfg.TwitchBotUsername = os.Getenv("TWITCH_BOT_USERNAME")
	cfg.TwitchOAuthToken = os.Getenv("TWITCH_OAUTH_TOKEN")
	cfg.TwitchChannels = splitList(os.Getenv("TWITCH_CHANNELS"))
	cfg.CommandPrefix = os.Getenv("CHAT_COMMAND_PREFIX")

	cfg.applyDefaults()
	return cfg, nil
}

// LoadFile loads the environment configuration and overlays the YAML file at
// path. Keys present in the file win over the environment.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HelixBaseURL == "" {
		c.HelixBaseURL = twitchapi.DefaultBaseURL
	}
	if c.TokenURL == "" {
		c.TokenURL = twitchapi.DefaultTokenURL
	}
	if c.VODPageSize <= 0 || c.VODPageSize > twitchapi.MaxPageSize {
		c.VODPageSize = twitchapi.MaxPageSize
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.CommandPrefix == "" {
		c.CommandPrefix = "!"
	}
}

// Validate checks the fields required to call Helix.
func (c *Config) Validate() error {
	if c.TwitchClientID == "" || c.TwitchClientSecret == "" {
		return errors.New("missing twitch env: require TWITCH_CLIENT_ID, TWITCH_CLIENT_SECRET")
	}
	return nil
}

// ChatEnabled reports whether the chat bot has everything it needs to connect.
func (c *Config) ChatEnabled() bool {
	return c.TwitchBotUsername != "" && c.TwitchOAuthToken != "" && len(c.TwitchChannels) > 0
}

// HelixClient builds a Helix client from the Twitch settings.
func (c *Config) HelixClient() *twitchapi.HelixClient {
	return &twitchapi.HelixClient{
		AppTokenSource: &twitchapi.TokenSource{
			ClientID:     c.TwitchClientID,
			ClientSecret: c.TwitchClientSecret,
			TokenURL:     c.TokenURL,
		},
		ClientID: c.TwitchClientID,
		BaseURL:  c.HelixBaseURL,
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(strings.TrimPrefix(p, "#")))
		}
	}
	return out
}
