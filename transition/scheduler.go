// Package transition crossfades between phase nodes one tick at a time.
package transition

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/phusic/common"
	"github.com/milk9111/phusic/phase"
)

// commitTolerance absorbs the rounding of summing the per-tick increment, so
// a fade of duration*fps ticks never needs one tick more.
const commitTolerance = 1e-9

var ErrInvalidConfig = errors.New("transition: invalid config")

// Mixer plays the looping audio of phase nodes.
type Mixer interface {
	// Play starts the node's clip from the beginning, looped, at its current gain.
	Play(id string)
	SetGain(id string, gain float64)
	Stop(id string)
}

// Canvas holds the opacity each node's image is composited with.
type Canvas interface {
	SetOpacity(id string, alpha float64)
}

// Config sets the fade length. Fades are frame locked: the increment per
// tick is fixed, so the wall clock length depends on the achieved frame rate.
type Config struct {
	Duration  time.Duration
	FrameRate int
}

// Status is the scheduler state.
type Status int

const (
	Idle Status = iota
	Fading
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fading:
		return "fading"
	default:
		return "unknown"
	}
}

// State is a snapshot of the scheduler. From, To and Progress are only set
// while Fading; Current is the committed node.
type State struct {
	Status   Status
	Current  *phase.Node
	From     *phase.Node
	To       *phase.Node
	Progress float64
}

// Scheduler owns what is playing and what is fading in. It is not safe for
// concurrent use; the game loop drives it from a single goroutine.
type Scheduler struct {
	mixer  Mixer
	canvas Canvas

	step   float64
	frames int

	current  *phase.Node
	target   *phase.Node
	progress float64
	fading   bool
}

// NewScheduler starts idle on start with its audio already at full gain and
// its image fully opaque.
func NewScheduler(start *phase.Node, mixer Mixer, canvas Canvas, cfg Config) (*Scheduler, error) {
	if start == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "no start node")
	}
	if mixer == nil || canvas == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "mixer and canvas are required")
	}
	if cfg.Duration <= 0 || cfg.FrameRate <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "duration %s at %d fps", cfg.Duration, cfg.FrameRate)
	}

	ticks := cfg.Duration.Seconds() * float64(cfg.FrameRate)
	s := &Scheduler{
		mixer:   mixer,
		canvas:  canvas,
		step:    1.0 / ticks,
		frames:  int(math.Ceil(ticks - commitTolerance)),
		current: start,
	}

	mixer.SetGain(start.ID, 1)
	mixer.Play(start.ID)
	canvas.SetOpacity(start.ID, 1)
	return s, nil
}

// Request starts a crossfade to target. It is ignored while a fade is running,
// for a nil target and for the node that is already current.
func (s *Scheduler) Request(target *phase.Node) bool {
	if s.fading || target == nil || target == s.current {
		return false
	}

	s.mixer.SetGain(target.ID, 0)
	s.mixer.Play(target.ID)
	s.canvas.SetOpacity(target.ID, 0)

	s.target = target
	s.progress = 0
	s.fading = true
	zlog.Debug().Str("from", s.current.ID).Str("to", target.ID).Msg("transition started")
	return true
}

// Tick advances a running fade by one frame and reports whether it committed.
func (s *Scheduler) Tick() bool {
	if !s.fading {
		return false
	}

	s.progress += s.step
	alpha := common.Clamp01(s.progress)
	if s.progress >= 1-commitTolerance {
		alpha = 1
	}

	s.mixer.SetGain(s.current.ID, 1-alpha)
	s.mixer.SetGain(s.target.ID, alpha)
	s.canvas.SetOpacity(s.target.ID, alpha)

	if alpha < 1 {
		return false
	}

	s.mixer.Stop(s.current.ID)
	zlog.Debug().Str("from", s.current.ID).Str("to", s.target.ID).Msg("transition committed")
	s.current = s.target
	s.target = nil
	s.progress = 0
	s.fading = false
	return true
}

// Set switches to target without a fade. Any running fade is dropped and
// only target's audio keeps playing.
func (s *Scheduler) Set(target *phase.Node) {
	if target == nil {
		return
	}

	if s.fading {
		s.mixer.Stop(s.target.ID)
	}
	s.mixer.Stop(s.current.ID)

	s.current = target
	s.target = nil
	s.progress = 0
	s.fading = false

	s.mixer.SetGain(target.ID, 1)
	s.mixer.Play(target.ID)
	s.canvas.SetOpacity(target.ID, 1)
}

func (s *Scheduler) State() State {
	if !s.fading {
		return State{Status: Idle, Current: s.current}
	}
	return State{
		Status:   Fading,
		Current:  s.current,
		From:     s.current,
		To:       s.target,
		Progress: s.progress,
	}
}

func (s *Scheduler) Current() *phase.Node {
	return s.current
}

func (s *Scheduler) Fading() bool {
	return s.fading
}

// Layers returns what to draw: base fully opaque, then overlay (nil when
// idle) at alpha.
func (s *Scheduler) Layers() (base, overlay *phase.Node, alpha float64) {
	if !s.fading {
		return s.current, nil, 0
	}
	return s.current, s.target, common.Clamp01(s.progress)
}

// Frames is the number of ticks a fade takes.
func (s *Scheduler) Frames() int {
	return s.frames
}
