package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Supported chat backends.
const (
	BackendMatrix   = "matrix"
	BackendTelegram = "telegram"
)

// telegramMaxLength is the Bot API limit on message text.
const telegramMaxLength = 4096

// DefaultExcludedKeywords are the iembot product categories that are too
// routine to relay.
var DefaultExcludedKeywords = []string{
	"Climate Report",
	"Zone Forecast Package",
	"Terminal Aerodrome Forecast",
	"CWA",
	"Rip Currents Statement",
	"Marine Weather Statement",
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL     string
	FeedTimeout time.Duration

	DedupFile        string
	ExcludedKeywords []string
	MaxMessageLength int
	PollInterval     time.Duration

	// Chat transport.
	ChatBackend  string
	ChatServer   string
	ChatRoomID   string
	ChatUser     string
	ChatPassword string
	ChatToken    string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	maxLength, err := parseMaxMessageLength()
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(sharedcfg.EnvOrDefault("CHAT_BACKEND", BackendMatrix))

	chatServer := os.Getenv("CHAT_SERVER")
	if chatServer == "" && backend == BackendMatrix {
		chatServer = "https://matrix.org"
	}

	cfg := &Config{
		FeedURL:          sharedcfg.EnvOrDefault("FEED_URL", "https://mesonet.agron.iastate.edu/iembot-rss/room/taechat.xml"),
		FeedTimeout:      feedTimeout,
		DedupFile:        sharedcfg.EnvOrDefault("DEDUP_FILE", "processed_messages.txt"),
		ExcludedKeywords: parseKeywords(),
		MaxMessageLength: maxLength,
		PollInterval:     pollInterval,

		ChatBackend:  backend,
		ChatServer:   chatServer,
		ChatRoomID:   os.Getenv("CHAT_ROOM_ID"),
		ChatUser:     os.Getenv("CHAT_USER"),
		ChatPassword: os.Getenv("CHAT_PASSWORD"),
		ChatToken:    os.Getenv("CHAT_TOKEN"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if u, err := url.Parse(c.FeedURL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("FEED_URL must be an absolute URL")
	}
	if c.DedupFile == "" {
		return errors.New("DEDUP_FILE is required")
	}
	if c.ChatRoomID == "" {
		return errors.New("CHAT_ROOM_ID is required")
	}

	switch c.ChatBackend {
	case BackendMatrix:
		if c.ChatUser == "" || c.ChatPassword == "" {
			return errors.New("CHAT_USER and CHAT_PASSWORD are required for the matrix backend")
		}
	case BackendTelegram:
		if c.ChatToken == "" {
			return errors.New("CHAT_TOKEN is required for the telegram backend")
		}
		if _, err := strconv.ParseInt(c.ChatRoomID, 10, 64); err != nil {
			return errors.New("CHAT_ROOM_ID must be a numeric chat id for the telegram backend")
		}
		if c.ChatServer != "" && (strings.Count(c.ChatServer, "%") != 2 || strings.Count(c.ChatServer, "%s") != 2) {
			return errors.New(`CHAT_SERVER must be a Bot API endpoint template with exactly two %s verbs, e.g. "https://api.telegram.org/bot%s/%s"`)
		}
		if c.MaxMessageLength > telegramMaxLength {
			return fmt.Errorf("MAX_MESSAGE_LENGTH must be at most %d for the telegram backend", telegramMaxLength)
		}
	default:
		return fmt.Errorf("CHAT_BACKEND %q is not supported", c.ChatBackend)
	}
	return nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMaxMessageLength() (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault("MAX_MESSAGE_LENGTH", "8000"))
	if err != nil || n <= 3 {
		return 0, errors.New("invalid MAX_MESSAGE_LENGTH: must be an integer greater than 3")
	}
	return n, nil
}

// parseKeywords splits EXCLUDED_KEYWORDS on commas. An explicitly empty
// value disables exclusion entirely.
func parseKeywords() []string {
	raw, ok := os.LookupEnv("EXCLUDED_KEYWORDS")
	if !ok {
		return append([]string(nil), DefaultExcludedKeywords...)
	}
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
