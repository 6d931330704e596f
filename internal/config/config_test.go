package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, ":5175", c.Addr())
	assert.Equal(t, 30, c.RoundSeconds)
	assert.Equal(t, time.Second, c.TickInterval)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
	assert.Equal(t, 1024, c.MaxSessions)
	assert.Empty(t, c.WordsDB)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ROUND_SECONDS", "45")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("WORDS_FILE", "/tmp/words.json")
	t.Setenv("LOG_FORMAT", "console")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr())
	assert.Equal(t, 45, c.RoundSeconds)
	assert.Equal(t, 250*time.Millisecond, c.TickInterval)
	assert.Equal(t, "/tmp/words.json", c.WordsFile)
	assert.Equal(t, "console", c.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"default secret outside dev", map[string]string{"APP_ENV": "prod"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"zero round", map[string]string{"ROUND_SECONDS": "0"}},
		{"unparsable duration", map[string]string{"TICK_INTERVAL": "soon"}},
		{"zero sessions", map[string]string{"MAX_SESSIONS": "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_ProdWithSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err := Load()
	require.NoError(t, err)
}
