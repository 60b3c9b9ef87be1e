// Command diagram renders the next_phase links of a config as a Mermaid
// flowchart.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/phusic/config"
	"github.com/milk9111/phusic/logger"
)

var (
	app        = kingpin.New("diagram", "Render the phase links of a phusic config as Mermaid")
	configPath = app.Flag("config", "Path to a JSON or YAML config file").Short('c').Required().String()
	out        = app.Flag("out", "Write the diagram to this file instead of stdout").Short('o').String()
	watch      = app.Flag("watch", "Regenerate whenever the config changes").Bool()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	if err := render(); err != nil {
		if !*watch {
			zlog.Fatal().Err(err).Msg("failed to render diagram")
		}
		zlog.Error().Err(err).Msg("failed to render diagram")
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := watchConfig(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("watch failed")
	}
}

func render() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	diagram := config.Mermaid(cfg)
	if *out == "" {
		fmt.Print(diagram)
		return nil
	}
	if err := os.WriteFile(*out, []byte(diagram), 0o644); err != nil {
		return err
	}
	zlog.Info().Str("path", *out).Int("phases", len(cfg.Phases)).Msg("diagram written")
	return nil
}

func watchConfig(ctx context.Context) error {
	w, err := config.NewWatcher(*configPath)
	if err != nil {
		return err
	}
	defer w.Close()

	zlog.Info().Str("path", *configPath).Msg("watching config")
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			zlog.Debug().Str("path", path).Msg("config changed")
			if err := render(); err != nil {
				zlog.Error().Err(err).Msg("failed to render diagram")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			zlog.Warn().Err(err).Msg("watcher error")
		}
	}
}
