// Package main provides the entry point for the HLO converter CLI.
package main

import (
	"os"

	"github.com/GabrielNunesIT/go-libs/logger"

	"github.com/GabrielNunesIT/hlo-converter/internal/cli"
	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

func main() {
	// stdout may carry the converted module, so logs go to stderr.
	log := logger.NewConsoleLogger(os.Stderr)

	app := cli.New(log, os.Stdout, os.Stderr)
	if err := app.Execute(); err != nil {
		log.Errorf("Error: %v", err)
		os.Exit(domain.ExitCode(err))
	}
}
