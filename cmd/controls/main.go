// Command controls prints the controls table of a config.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	zlog "github.com/rs/zerolog/log"
	"golang.design/x/clipboard"

	"github.com/milk9111/phusic/config"
	"github.com/milk9111/phusic/input"
	"github.com/milk9111/phusic/logger"
)

var (
	app        = kingpin.New("controls", "Print the controls table of a phusic config")
	configPath = app.Flag("config", "Path to a JSON or YAML config file").Short('c').Required().String()
	out        = app.Flag("out", "Write the table to this file instead of stdout").Short('o').String()
	copyOut    = app.Flag("copy", "Also put the table on the clipboard").Bool()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.Init(logger.Config{Output: "stderr", Level: "info"}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}

	table := input.Markdown(input.Describe(cfg))

	if *out != "" {
		if err := os.WriteFile(*out, []byte(table), 0o644); err != nil {
			zlog.Fatal().Err(err).Str("path", *out).Msg("failed to write controls")
		}
		zlog.Info().Str("path", *out).Msg("controls written")
	} else {
		fmt.Print(table)
	}

	if *copyOut {
		if err := clipboard.Init(); err != nil {
			zlog.Fatal().Err(err).Msg("clipboard unavailable")
		}
		clipboard.Write(clipboard.FmtText, []byte(table))
		zlog.Info().Msg("controls copied to clipboard")
	}
}
