package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-trainer/internal/config"
	"github.com/lox/blackjack-trainer/internal/trainer"
	"github.com/lox/blackjack-trainer/internal/tui"
)

// TrainerCmd runs the interactive terminal trainer.
type TrainerCmd struct {
	Config string `kong:"default='blackjack.hcl',help='Path to HCL config file'"`
	Decks  int    `kong:"help='Number of decks in the shoe (overrides config)'"`
	System string `kong:"help='Counting system id (overrides config)'"`
	Load   string `kong:"help='Restore a session snapshot before starting'"`
	Save   string `kong:"help='Write a session snapshot on exit'"`
	Debug  bool   `kong:"help='Write debug logs to blackjack-trainer.log'"`
}

func (c *TrainerCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if c.Debug {
		f, err := os.OpenFile("blackjack-trainer.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	session := trainer.NewSession(logger)
	session.SetBetBands(cfg.Bands())
	system := cfg.Trainer.CountingSystem
	if c.System != "" {
		system = c.System
	}
	if err := session.SelectSystem(system); err != nil {
		return err
	}
	decks := cfg.Trainer.Decks
	if c.Decks != 0 {
		decks = c.Decks
	}
	if err := session.SetDecks(decks); err != nil {
		return err
	}

	if c.Load != "" {
		data, err := os.ReadFile(c.Load)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if err := session.ImportJSON(data); err != nil {
			return err
		}
	}

	if err := tui.Run(session, logger); err != nil {
		return err
	}

	if c.Save != "" {
		data, err := session.ExportJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.Save, data, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}
	return nil
}
