package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRoomID   = "!alerts:example.org"
	testUser     = "wxbot"
	testPassword = "hunter2"
)

func setMatrixEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CHAT_ROOM_ID", testRoomID)
	t.Setenv("CHAT_USER", testUser)
	t.Setenv("CHAT_PASSWORD", testPassword)
}

func TestLoad_Defaults(t *testing.T) {
	setMatrixEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://mesonet.agron.iastate.edu/iembot-rss/room/taechat.xml", cfg.FeedURL)
	assert.Equal(t, 30*time.Second, cfg.FeedTimeout)
	assert.Equal(t, "processed_messages.txt", cfg.DedupFile)
	assert.Equal(t, DefaultExcludedKeywords, cfg.ExcludedKeywords)
	assert.Equal(t, 8000, cfg.MaxMessageLength)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, BackendMatrix, cfg.ChatBackend)
	assert.Equal(t, "https://matrix.org", cfg.ChatServer)
	assert.Equal(t, testRoomID, cfg.ChatRoomID)
	assert.Equal(t, testUser, cfg.ChatUser)
	assert.Equal(t, testPassword, cfg.ChatPassword)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	setMatrixEnv(t)
	t.Setenv("FEED_URL", "https://mesonet.agron.iastate.edu/iembot-rss/room/dmxchat.xml")
	t.Setenv("FEED_TIMEOUT", "10s")
	t.Setenv("DEDUP_FILE", "/var/lib/relay/seen.txt")
	t.Setenv("EXCLUDED_KEYWORDS", "Climate Report, Flood Advisory ,,")
	t.Setenv("MAX_MESSAGE_LENGTH", "2000")
	t.Setenv("POLL_INTERVAL", "1m")
	t.Setenv("CHAT_SERVER", "https://matrix.example.org")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://mesonet.agron.iastate.edu/iembot-rss/room/dmxchat.xml", cfg.FeedURL)
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout)
	assert.Equal(t, "/var/lib/relay/seen.txt", cfg.DedupFile)
	assert.Equal(t, []string{"Climate Report", "Flood Advisory"}, cfg.ExcludedKeywords)
	assert.Equal(t, 2000, cfg.MaxMessageLength)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, "https://matrix.example.org", cfg.ChatServer)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_EmptyKeywordsDisablesExclusion(t *testing.T) {
	setMatrixEnv(t)
	t.Setenv("EXCLUDED_KEYWORDS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.ExcludedKeywords)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	setMatrixEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	for _, v := range []string{"soon", "0s", "-5m"} {
		t.Run(v, func(t *testing.T) {
			setMatrixEnv(t)
			t.Setenv("POLL_INTERVAL", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "POLL_INTERVAL")
		})
	}
}

func TestLoad_InvalidFeedTimeout(t *testing.T) {
	setMatrixEnv(t)
	t.Setenv("FEED_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_TIMEOUT")
}

func TestLoad_InvalidMaxMessageLength(t *testing.T) {
	for _, v := range []string{"abc", "3", "-1"} {
		t.Run(v, func(t *testing.T) {
			setMatrixEnv(t)
			t.Setenv("MAX_MESSAGE_LENGTH", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "MAX_MESSAGE_LENGTH")
		})
	}
}

func TestLoad_InvalidFeedURL(t *testing.T) {
	setMatrixEnv(t)
	t.Setenv("FEED_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_URL")
}

func TestLoad_MissingRoom(t *testing.T) {
	t.Setenv("CHAT_USER", testUser)
	t.Setenv("CHAT_PASSWORD", testPassword)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAT_ROOM_ID")
}

func TestLoad_MatrixRequiresCredentials(t *testing.T) {
	t.Setenv("CHAT_ROOM_ID", testRoomID)
	t.Setenv("CHAT_USER", testUser)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAT_PASSWORD")
}

func TestLoad_Telegram(t *testing.T) {
	t.Setenv("CHAT_BACKEND", "Telegram")
	t.Setenv("CHAT_ROOM_ID", "-100123456")
	t.Setenv("CHAT_TOKEN", "123:abc")
	t.Setenv("MAX_MESSAGE_LENGTH", "4096")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendTelegram, cfg.ChatBackend)
	assert.Empty(t, cfg.ChatServer)
	assert.Equal(t, "123:abc", cfg.ChatToken)
}

func TestLoad_TelegramValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing token",
			env:     map[string]string{"CHAT_ROOM_ID": "42"},
			wantErr: "CHAT_TOKEN",
		},
		{
			name:    "non-numeric chat id",
			env:     map[string]string{"CHAT_ROOM_ID": "@alerts", "CHAT_TOKEN": "t"},
			wantErr: "CHAT_ROOM_ID",
		},
		{
			name:    "endpoint template without verbs",
			env:     map[string]string{"CHAT_ROOM_ID": "42", "CHAT_TOKEN": "t", "MAX_MESSAGE_LENGTH": "4096", "CHAT_SERVER": "https://tg.internal/api"},
			wantErr: "CHAT_SERVER",
		},
		{
			name:    "endpoint template with a stray verb",
			env:     map[string]string{"CHAT_ROOM_ID": "42", "CHAT_TOKEN": "t", "MAX_MESSAGE_LENGTH": "4096", "CHAT_SERVER": "https://tg.internal/bot%s/%s?x=%d"},
			wantErr: "CHAT_SERVER",
		},
		{
			name:    "length above bot api limit",
			env:     map[string]string{"CHAT_ROOM_ID": "42", "CHAT_TOKEN": "t"},
			wantErr: "MAX_MESSAGE_LENGTH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CHAT_BACKEND", BackendTelegram)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_TelegramEndpointTemplate(t *testing.T) {
	t.Setenv("CHAT_BACKEND", BackendTelegram)
	t.Setenv("CHAT_ROOM_ID", "-1001234")
	t.Setenv("CHAT_TOKEN", "t")
	t.Setenv("MAX_MESSAGE_LENGTH", "4096")
	t.Setenv("CHAT_SERVER", "https://tg.internal/bot%s/%s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://tg.internal/bot%s/%s", cfg.ChatServer)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("CHAT_BACKEND", "irc")
	t.Setenv("CHAT_ROOM_ID", "#wx")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAT_BACKEND")
}
