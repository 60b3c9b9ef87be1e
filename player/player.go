package player

import (
	"math"

	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/phusic/phase"
	"github.com/milk9111/phusic/transition"
)

// SoundBoard plays keyed sound effects.
type SoundBoard interface {
	Trigger(name string)
}

// Player is the session context: the graph, the scheduler and the autoplay
// clock. All of its state changes inside Tick.
type Player struct {
	graph  *phase.Graph
	sched  *transition.Scheduler
	sounds SoundBoard
	fps    int

	idle  int
	ticks uint64
}

func New(graph *phase.Graph, sched *transition.Scheduler, sounds SoundBoard, fps int) *Player {
	return &Player{graph: graph, sched: sched, sounds: sounds, fps: fps}
}

// Tick applies this tick's actions and advances the scheduler. Only the first
// navigation action is applied; later ones in the same tick are dropped.
// Sound effects always fire.
func (p *Player) Tick(actions []Action) {
	p.ticks++

	navigated := false
	for _, a := range actions {
		switch {
		case a.Kind == Sound:
			if p.sounds != nil {
				p.sounds.Trigger(a.Name)
			}
		case a.Kind.Navigates():
			if navigated {
				zlog.Debug().Stringer("action", a.Kind).Uint64("tick", p.ticks).Msg("navigation dropped")
				continue
			}
			navigated = true
			p.navigate(a)
		}
	}

	if p.sched.Tick() {
		p.idle = 0
		zlog.Info().Str("phase", p.sched.Current().Name).Str("node", p.sched.Current().ID).Msg("phase changed")
	}
	p.autoplay()
}

func (p *Player) navigate(a Action) {
	cur := p.sched.Current()
	switch a.Kind {
	case Next:
		p.request(p.graph.Successor(cur))
	case JumpNext:
		p.set(p.graph.Successor(cur))
	case Previous, JumpPrevious:
		prev, err := p.graph.Predecessor(cur)
		if err != nil {
			zlog.Warn().Err(err).Str("node", cur.ID).Msg("no previous phase")
			return
		}
		if a.Kind == Previous {
			p.request(prev)
		} else {
			p.set(prev)
		}
	case Trigger:
		n, ok := p.graph.ByTriggerKey(a.Key)
		if !ok {
			zlog.Warn().Str("key", a.Key).Msg("no phase bound to key")
			return
		}
		p.request(n)
	}
}

func (p *Player) request(n *phase.Node) {
	if p.sched.Request(n) {
		zlog.Debug().Str("to", n.ID).Int("frames", p.sched.Frames()).Msg("fading")
	}
}

func (p *Player) set(n *phase.Node) {
	p.sched.Set(n)
	p.idle = 0
	zlog.Info().Str("phase", n.Name).Str("node", n.ID).Msg("phase set")
}

// autoplay advances to the successor once the current node has been idle for
// its configured duration.
func (p *Player) autoplay() {
	if p.sched.Fading() {
		return
	}
	cur := p.sched.Current()
	if !cur.Autoplay() {
		p.idle = 0
		return
	}

	p.idle++
	if p.idle < p.autoplayTicks(cur) {
		return
	}
	p.idle = 0
	p.request(p.graph.Successor(cur))
}

func (p *Player) autoplayTicks(n *phase.Node) int {
	return int(math.Ceil(n.Duration.Seconds() * float64(p.fps)))
}

func (p *Player) Current() *phase.Node {
	return p.sched.Current()
}

func (p *Player) State() transition.State {
	return p.sched.State()
}

func (p *Player) Scheduler() *transition.Scheduler {
	return p.sched
}

func (p *Player) Graph() *phase.Graph {
	return p.graph
}
