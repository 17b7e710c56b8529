// Package config loads trainer configuration from HCL files. A missing
// file is not an error; defaults apply, and any file only overrides what
// it sets.
package config

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack-trainer/internal/counting"
)

// Config is the complete trainer configuration.
type Config struct {
	Trainer    *TrainerSettings    `hcl:"trainer,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Server     *ServerSettings     `hcl:"server,block"`
	BetBands   []BetBandConfig     `hcl:"bet_band,block"`
}

// TrainerSettings configures the counting session.
type TrainerSettings struct {
	Decks          int    `hcl:"decks,optional"`
	CountingSystem string `hcl:"counting_system,optional"`
}

// SimulationSettings configures Monte Carlo runs.
type SimulationSettings struct {
	Samples       int `hcl:"samples,optional"`
	ProgressEvery int `hcl:"progress_every,optional"`
}

// ServerSettings configures the WebSocket server.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// BetBandConfig overrides one betting band. Bands are matched highest
// min_count first; the lowest band acts as the catch-all.
type BetBandConfig struct {
	Label    string  `hcl:"label,label"`
	MinCount float64 `hcl:"min_count"`
	MinUnits float64 `hcl:"min_units"`
	MaxUnits float64 `hcl:"max_units"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Trainer: &TrainerSettings{
			Decks:          6,
			CountingSystem: counting.DefaultSystemID,
		},
		Simulation: &SimulationSettings{
			Samples:       10000,
			ProgressEvery: 100,
		},
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; a present file is decoded, default-filled and validated.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Trainer == nil {
		c.Trainer = def.Trainer
	}
	if c.Trainer.Decks == 0 {
		c.Trainer.Decks = def.Trainer.Decks
	}
	if c.Trainer.CountingSystem == "" {
		c.Trainer.CountingSystem = def.Trainer.CountingSystem
	}
	if c.Simulation == nil {
		c.Simulation = def.Simulation
	}
	if c.Simulation.Samples == 0 {
		c.Simulation.Samples = def.Simulation.Samples
	}
	if c.Simulation.ProgressEvery == 0 {
		c.Simulation.ProgressEvery = def.Simulation.ProgressEvery
	}
	if c.Server == nil {
		c.Server = def.Server
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
}

// Validate rejects configuration the engine would otherwise have to guard
// against at every call site.
func (c *Config) Validate() error {
	if _, err := counting.Lookup(c.Trainer.CountingSystem); err != nil {
		return err
	}
	if c.Trainer.Decks < 1 || c.Trainer.Decks > 8 {
		return fmt.Errorf("decks %d out of range 1-8", c.Trainer.Decks)
	}
	if c.Simulation.Samples < 1 {
		return fmt.Errorf("samples must be positive, got %d", c.Simulation.Samples)
	}
	for _, b := range c.BetBands {
		if b.MinUnits < 0 || b.MaxUnits < b.MinUnits {
			return fmt.Errorf("bet_band %q: unit range %g-%g is invalid", b.Label, b.MinUnits, b.MaxUnits)
		}
	}
	return nil
}

// Bands converts configured bet bands into counting bands, ordered highest
// edge first with the lowest band widened into a catch-all so every true
// count maps to exactly one band. Without any bet_band blocks the built-in
// bands are used.
func (c *Config) Bands() []counting.BetBand {
	if len(c.BetBands) == 0 {
		return counting.DefaultBetBands
	}

	bands := make([]counting.BetBand, len(c.BetBands))
	for i, b := range c.BetBands {
		bands[i] = counting.BetBand{
			Label:    b.Label,
			MinCount: b.MinCount,
			MinUnits: b.MinUnits,
			MaxUnits: b.MaxUnits,
		}
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinCount > bands[j].MinCount })
	bands[len(bands)-1].MinCount = math.Inf(-1)
	return bands
}
