package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetDefault(t *testing.T) {
	c, err := Get("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, "USD", c.Currency)
	assert.True(t, c.Seed)
}

func TestGetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")
	content := `
addr: "127.0.0.1:9000"
file: mine.csv
currency: eur
seed: false
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := Get(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", c.Addr)
	assert.Equal(t, "mine.csv", c.File)
	assert.Equal(t, "EUR", c.Currency)
	assert.Equal(t, ":memory:", c.Prices)
	assert.False(t, c.Seed)
	assert.Equal(t, zapcore.DebugLevel, c.LogLevel)
}

func TestGetErrors(t *testing.T) {
	_, err := Get(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	for name, content := range map[string]string{
		"bad yaml":     "addr: [",
		"bad currency": "currency: ZZZ",
		"bad level":    "log_level: loud",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parse([]byte(content))
			assert.Error(t, err)
		})
	}
}
