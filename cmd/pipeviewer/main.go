// Command pipeviewer copies its input to its output and reports the progress on stderr.
//
//	pipeviewer [-o outfile] [-s] [infile]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/askiada/go-pipeviewer/internal/config"
	"github.com/askiada/go-pipeviewer/internal/pv"
	"github.com/askiada/go-pipeviewer/pkg/pipeline"
)

const (
	exitOK = iota
	exitFailure
	exitPanic
)

func newLogger(level zerolog.Level) zerolog.Logger {
	zerolog.SetGlobalLevel(level)

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func run() int {
	cfg, err := config.LoadFromOS()
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}

	if err != nil {
		log := newLogger(zerolog.WarnLevel)
		log.Error().Err(err).Msg("invalid configuration")

		return exitFailure
	}

	log := newLogger(cfg.LogLevel)

	// Writes to a closed stdout must fail with EPIPE instead of killing the process.
	signal.Notify(make(chan os.Signal, 1), syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = pv.New(cfg, log).Run(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrStagePanic) {
			return exitPanic
		}

		return exitFailure
	}

	return exitOK
}

func main() {
	os.Exit(run())
}
