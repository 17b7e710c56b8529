package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Trainer  TrainerCmd       `cmd:"" default:"1" help:"Run the interactive counting trainer"`
	Simulate SimulateCmd      `cmd:"" help:"Estimate outcome rates for a decision by Monte Carlo simulation"`
	Serve    ServeCmd         `cmd:"" help:"Run the WebSocket trainer server"`
	Systems  SystemsCmd       `cmd:"" help:"List the available counting systems"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack-trainer"),
		kong.Description("Blackjack card counting trainer and decision simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func setupLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
