package main

import (
	"github.com/cockroachdb/errors"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/phusic/assets"
	"github.com/milk9111/phusic/common"
	"github.com/milk9111/phusic/config"
	"github.com/milk9111/phusic/input"
	"github.com/milk9111/phusic/overlay"
	"github.com/milk9111/phusic/phase"
	"github.com/milk9111/phusic/player"
	"github.com/milk9111/phusic/transition"
)

type Game struct {
	frames int

	cfg      *config.Config
	graph    *phase.Graph
	library  *assets.Library
	loader   *assets.Loader
	bindings *input.Bindings

	hud          *overlay.HUD
	loading      *overlay.Loading
	controls     *ebitenui.UI
	showControls bool

	// nil until every asset is loaded
	player *player.Player
}

func NewGame(cfg *config.Config, graph *phase.Graph, library *assets.Library, loader *assets.Loader, bindings *input.Bindings, font *text.GoTextFaceSource) *Game {
	return &Game{
		cfg:      cfg,
		graph:    graph,
		library:  library,
		loader:   loader,
		bindings: bindings,
		hud:      overlay.NewHUD(font),
		loading:  overlay.NewLoading(font),
		controls: overlay.NewControlsUI(input.Describe(cfg), font),
	}
}

func (g *Game) Update() error {
	g.frames++

	var actions []player.Action
	for _, a := range g.bindings.Poll() {
		switch a.Kind {
		case player.Quit:
			zlog.Info().Msg("quit requested")
			return ebiten.Termination
		case player.Fullscreen:
			ebiten.SetFullscreen(!ebiten.IsFullscreen())
		case player.Controls:
			g.showControls = !g.showControls
		default:
			actions = append(actions, a)
		}
	}

	if g.showControls {
		g.controls.Update()
	}

	if g.player == nil {
		select {
		case <-g.loader.Ready():
			if err := g.start(); err != nil {
				return err
			}
		default:
			return nil
		}
	}

	g.player.Tick(actions)
	return nil
}

// start binds the loaded assets and begins playback on the start node.
func (g *Game) start() error {
	if err := g.loader.Err(); err != nil {
		return errors.Wrap(err, "load assets")
	}
	if err := g.library.Bind(); err != nil {
		return errors.Wrap(err, "bind assets")
	}

	fps := g.cfg.Transition.FPS
	sched, err := transition.NewScheduler(g.graph.Start(), g.library, g.library, transition.Config{
		Duration:  g.cfg.Transition.FadeDuration(),
		FrameRate: fps,
	})
	if err != nil {
		return err
	}

	g.player = player.New(g.graph, sched, g.library, fps)
	zlog.Info().
		Str("phase", g.graph.Start().Name).
		Int("nodes", g.graph.Len()).
		Int("fade_frames", sched.Frames()).
		Msg("playback started")
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.player == nil {
		g.loading.Draw(screen, g.loader.Status(), g.frames)
		return
	}

	base, top, _ := g.player.Scheduler().Layers()
	g.drawLayer(screen, base, 1)
	if top != nil {
		g.drawLayer(screen, top, g.library.Opacity(top.ID))
	}

	name := ""
	if st := g.player.State(); st.Status == transition.Idle {
		name = st.Current.Name
	}
	g.hud.Draw(screen, name)

	if g.showControls {
		g.controls.Draw(screen)
	}
}

func (g *Game) drawLayer(screen *ebiten.Image, n *phase.Node, alpha float64) {
	img := g.library.Scaled(n.ID, common.BaseWidth, common.BaseHeight)
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(img, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
