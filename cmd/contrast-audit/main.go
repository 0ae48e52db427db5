package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/wcag/internal/auditcli"
	"github.com/okian/wcag/internal/domain/suggest"
)

// Exit codes.
const (
	exitOK           = 0
	exitNonCompliant = 1
	exitError        = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		palettePath = flag.String("palette", "", "Palette file (YAML)")
		background  = flag.String("background", "", "Background for pairs that omit one")
		suggestFix  = flag.Bool("suggest", false, "Propose a compliant foreground for failing pairs")
		strategy    = flag.String("strategy", suggest.StrategyStep, "Suggestion strategy: step or bisect")
		baseURL     = flag.String("url", "", "Evaluate through a running service at this URL")
		timeout     = flag.Duration("timeout", auditcli.DefaultTimeout, "HTTP request timeout and report wait")
		logLevel    = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		auditcli.ShowHelp(os.Stdout)
		return exitOK
	}

	if err := auditcli.SetupLogging(os.Stderr, *logLevel); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &auditcli.Config{
		PalettePath: *palettePath,
		Background:  *background,
		Suggest:     *suggestFix,
		Strategy:    *strategy,
		BaseURL:     *baseURL,
		Timeout:     *timeout,
		LogLevel:    *logLevel,
	}

	if _, err := auditcli.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("contrast-audit: " + err.Error() + "\n")
		if errors.Is(err, auditcli.ErrNonCompliant) {
			return exitNonCompliant
		}
		return exitError
	}
	return exitOK
}
