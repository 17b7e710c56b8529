package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Trainer.Decks)
	assert.Equal(t, "hiLo", cfg.Trainer.CountingSystem)
	assert.Equal(t, 10000, cfg.Simulation.Samples)
	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
trainer {
  decks           = 2
  counting_system = "ko"
}

simulation {
  samples        = 500
  progress_every = 50
}

server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Trainer.Decks)
	assert.Equal(t, "ko", cfg.Trainer.CountingSystem)
	assert.Equal(t, 500, cfg.Simulation.Samples)
	assert.Equal(t, 50, cfg.Simulation.ProgressEvery)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
}

func TestLoadPartialConfigFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
trainer {
  decks = 4
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Trainer.Decks)
	assert.Equal(t, "hiLo", cfg.Trainer.CountingSystem)
	assert.Equal(t, 10000, cfg.Simulation.Samples)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown system", content: "trainer {\n  counting_system = \"psychic\"\n}\n"},
		{name: "too many decks", content: "trainer {\n  decks = 20\n}\n"},
		{name: "negative samples", content: "simulation {\n  samples = -1\n}\n"},
		{name: "inverted band units", content: "bet_band \"bad\" {\n  min_count = 1\n  min_units = 5\n  max_units = 2\n}\n"},
		{name: "syntax error", content: "trainer {\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestBandsDefault(t *testing.T) {
	cfg := Default()
	bands := cfg.Bands()
	require.NotEmpty(t, bands)
	assert.Equal(t, "max", bands[0].Label)
	assert.True(t, math.IsInf(bands[len(bands)-1].MinCount, -1), "lowest band is the catch-all")
}

func TestBandsFromConfig(t *testing.T) {
	path := writeConfig(t, `
bet_band "table-min" {
  min_count = 0
  min_units = 1
  max_units = 1
}

bet_band "press" {
  min_count = 2
  min_units = 4
  max_units = 6
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	bands := cfg.Bands()
	require.Len(t, bands, 2)
	assert.Equal(t, "press", bands[0].Label, "bands sorted highest edge first")
	assert.Equal(t, "table-min", bands[1].Label)
	assert.True(t, math.IsInf(bands[1].MinCount, -1), "lowest configured band widens to the catch-all")
}
