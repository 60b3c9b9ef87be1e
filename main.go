// Package main runs the ambience player.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/phusic/assets"
	"github.com/milk9111/phusic/config"
	"github.com/milk9111/phusic/input"
	"github.com/milk9111/phusic/logger"
	"github.com/milk9111/phusic/overlay"
	"github.com/milk9111/phusic/phase"
)

var (
	app         = kingpin.New("phusic", "Ambience player for tabletop sessions")
	configPath  = app.Flag("config", "Path to a JSON or YAML config file").Short('c').Default("configs/default.yaml").String()
	assetsRoot  = app.Flag("assets", "Root directory holding the asset directories").Default("assets").Envar("PHUSIC_ASSETS_ROOT").String()
	verbose     = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile     = app.Flag("logfile", "Path to log file (default: stdout)").String()
	windowed    = app.Flag("windowed", "Start in a window instead of fullscreen").Short('w').Bool()
	baseMonitor = app.Flag("monitor", "use base monitor instead of primary (for multi-monitor setups)").Short('m').Bool()

	checkCmd = app.Command("check", "Validate the config and its assets, then exit")
)

func init() {
	app.Command("play", "Play the configured phases (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
		RunID:  uuid.NewString(),
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Str("path", *configPath).Msg("loading config")
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}

	if command == checkCmd.FullCommand() {
		if err := check(cfg); err != nil {
			zlog.Error().Err(err).Msg("check failed")
			os.Exit(1)
		}
		zlog.Info().Msg("config ok")
		return
	}

	if err := run(cfg); err != nil {
		zlog.Error().Err(err).Msg("player stopped")
		os.Exit(1)
	}
}

// session is everything built from the config before the game loop starts.
type session struct {
	catalog  *assets.Catalog
	graph    *phase.Graph
	sounds   []assets.Sound
	bindings *input.Bindings
}

func prepare(cfg *config.Config) (*session, error) {
	catalog, err := assets.NewCatalog(*assetsRoot, cfg.Metadata.AssetsDir)
	if err != nil {
		return nil, err
	}

	specs, err := assets.Specs(cfg, catalog, assets.NewRand(cfg.Seed))
	if err != nil {
		return nil, err
	}
	graph, err := phase.Build(specs, cfg.StartPhase)
	if err != nil {
		return nil, errors.Wrap(err, "build phase graph")
	}

	sounds, err := assets.Sounds(cfg, catalog)
	if err != nil {
		return nil, err
	}

	bindings, err := input.FromConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "key bindings")
	}

	zlog.Info().
		Str("config", cfg.Metadata.Name).
		Int("phases", len(cfg.Phases)).
		Int("nodes", graph.Len()).
		Bool("circular", graph.Circular()).
		Str("start", graph.Start().ID).
		Msg("phase graph built")
	return &session{catalog: catalog, graph: graph, sounds: sounds, bindings: bindings}, nil
}

// check builds everything playback needs without opening a window and
// reports asset naming problems.
func check(cfg *config.Config) error {
	if _, err := prepare(cfg); err != nil {
		return err
	}

	dir := filepath.Join(*assetsRoot, cfg.Metadata.AssetsDir)
	bad, err := config.CheckAssetNames(dir)
	if err != nil {
		return err
	}
	for _, path := range bad {
		zlog.Warn().Str("path", path).Msg("asset name should be lowercase [a-z0-9_.]")
	}

	clashes, err := config.CheckClashes(dir)
	if err != nil {
		return err
	}
	dirs := make([]string, 0, len(clashes))
	for d := range clashes {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	for _, d := range dirs {
		zlog.Warn().Str("dir", d).Strs("paths", clashes[d]).Msg("asset names clash")
	}

	if len(bad) > 0 || len(clashes) > 0 {
		return errors.Newf("%d badly named assets, %d clashing directories", len(bad), len(clashes))
	}
	return nil
}

func run(cfg *config.Config) error {
	s, err := prepare(cfg)
	if err != nil {
		return err
	}

	fontPath := ""
	if cfg.Font != "" {
		if fontPath, err = s.catalog.Resolve(cfg.Font); err != nil {
			return errors.Wrap(err, "font")
		}
	}
	font, err := overlay.LoadFaceSource(fontPath)
	if err != nil {
		return err
	}

	library := assets.NewLibrary(audio.NewContext(assets.SampleRate))
	library.Register(s.graph)
	library.RegisterSounds(s.sounds)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loader := assets.NewLoader(library, runtime.NumCPU())
	loader.Start(ctx)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("phusic - " + cfg.Metadata.Name)
	ebiten.SetFullscreen(!*windowed)
	ebiten.SetTPS(cfg.Transition.FPS)

	game := NewGame(cfg, s.graph, library, loader, s.bindings, font)

	// RunGame returns nil when Update returns ebiten.Termination.
	return ebiten.RunGame(game)
}
