// cmd/freecell/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/freecell/engine"
	"github.com/jason-s-yu/freecell/internal/config"
	"github.com/jason-s-yu/freecell/internal/game"
	"github.com/jason-s-yu/freecell/internal/slots"
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	seed := flag.Int64("seed", -1, "game number to deal on start (-1 for random)")
	flag.Parse()

	if err := run(*envFile, *seed); err != nil {
		fmt.Fprintln(os.Stderr, "freecell:", err)
		os.Exit(1)
	}
}

func run(envFile string, seed int64) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if err := cfg.ConfigureLogger(logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := slots.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open save slots (%s): %w", cfg.Backend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("Closing save slots")
		}
	}()
	logger.WithFields(logrus.Fields{"backend": cfg.Backend, "slots": cfg.SlotCount}).Info("Save slots ready")

	sess := game.NewSession(store,
		game.WithLogger(logger),
		game.WithAutoplay(cfg.Autoplay),
		game.WithIOTimeout(cfg.IOTimeout),
	)

	switch {
	case seed < 0:
		if _, err := sess.NewRandomGame(); err != nil {
			return err
		}
	case seed > engine.MaxSeed:
		return fmt.Errorf("seed %d out of range 0..%d", seed, uint32(engine.MaxSeed))
	default:
		if err := sess.NewGame(seed); err != nil {
			return err
		}
	}

	return newREPL(sess, os.Stdin, os.Stdout).Run(ctx)
}
