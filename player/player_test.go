package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/phusic/phase"
	"github.com/milk9111/phusic/transition"
)

type fakeMixer struct {
	playing map[string]bool
}

func (m *fakeMixer) Play(id string)                  { m.playing[id] = true }
func (m *fakeMixer) SetGain(id string, gain float64) {}
func (m *fakeMixer) Stop(id string)                  { m.playing[id] = false }

func (m *fakeMixer) active() []string {
	var out []string
	for id, on := range m.playing {
		if on {
			out = append(out, id)
		}
	}
	return out
}

type fakeCanvas struct{}

func (fakeCanvas) SetOpacity(string, float64) {}

type fakeBoard struct {
	fired []string
}

func (b *fakeBoard) Trigger(name string) { b.fired = append(b.fired, name) }

func spec(id string) phase.Spec {
	return phase.Spec{
		ID:       id,
		Name:     "Phase " + id,
		Variants: []phase.Variant{{Audio: id + ".wav", Image: id + ".png"}},
	}
}

const fps = 10

func newPlayer(t *testing.T, specs []phase.Spec) (*Player, *fakeMixer, *fakeBoard) {
	t.Helper()
	g, err := phase.Build(specs, "")
	require.NoError(t, err)

	mixer := &fakeMixer{playing: make(map[string]bool)}
	sched, err := transition.NewScheduler(g.Start(), mixer, fakeCanvas{}, transition.Config{
		Duration:  time.Second,
		FrameRate: fps,
	})
	require.NoError(t, err)

	board := &fakeBoard{}
	return New(g, sched, board, fps), mixer, board
}

func ring() []phase.Spec {
	return []phase.Spec{spec("a"), spec("b"), spec("c")}
}

func run(p *Player, ticks int) {
	for i := 0; i < ticks; i++ {
		p.Tick(nil)
	}
}

func TestPlayer_NextCommitsAfterFade(t *testing.T) {
	p, mixer, _ := newPlayer(t, ring())

	p.Tick([]Action{{Kind: Next}})
	st := p.State()
	require.Equal(t, transition.Fading, st.Status)
	assert.Equal(t, "b", st.To.ID)

	run(p, fps-2)
	assert.Equal(t, "a", p.Current().ID)

	run(p, 1)
	assert.Equal(t, "b", p.Current().ID)
	assert.Equal(t, transition.Idle, p.State().Status)
	assert.Equal(t, []string{"b"}, mixer.active())
}

func TestPlayer_FirstNavigationWins(t *testing.T) {
	p, _, _ := newPlayer(t, ring())

	p.Tick([]Action{{Kind: Previous}, {Kind: Next}, {Kind: JumpNext}})
	st := p.State()
	require.Equal(t, transition.Fading, st.Status)
	assert.Equal(t, "c", st.To.ID)
}

func TestPlayer_SoundsAlwaysFire(t *testing.T) {
	p, _, board := newPlayer(t, ring())

	p.Tick([]Action{
		{Kind: Sound, Name: "bell"},
		{Kind: Next},
		{Kind: Previous},
		{Kind: Sound, Name: "thunder"},
	})
	assert.Equal(t, []string{"bell", "thunder"}, board.fired)
	assert.Equal(t, "b", p.State().To.ID)
}

func TestPlayer_RequestIgnoredWhileFading(t *testing.T) {
	p, _, _ := newPlayer(t, ring())

	p.Tick([]Action{{Kind: Next}})
	p.Tick([]Action{{Kind: Next}})
	p.Tick([]Action{{Kind: Previous}})
	assert.Equal(t, "b", p.State().To.ID)

	run(p, fps)
	assert.Equal(t, "b", p.Current().ID)
}

func TestPlayer_Jump(t *testing.T) {
	p, mixer, _ := newPlayer(t, ring())

	p.Tick([]Action{{Kind: JumpNext}})
	assert.Equal(t, "b", p.Current().ID)
	assert.Equal(t, transition.Idle, p.State().Status)
	assert.Equal(t, []string{"b"}, mixer.active())

	p.Tick([]Action{{Kind: JumpPrevious}})
	p.Tick([]Action{{Kind: JumpPrevious}})
	assert.Equal(t, "c", p.Current().ID)
	assert.Equal(t, []string{"c"}, mixer.active())
}

func TestPlayer_JumpDuringFade(t *testing.T) {
	p, mixer, _ := newPlayer(t, ring())

	p.Tick([]Action{{Kind: Next}})
	p.Tick([]Action{{Kind: JumpNext}})
	assert.Equal(t, "b", p.Current().ID)
	assert.Equal(t, transition.Idle, p.State().Status)
	assert.Equal(t, []string{"b"}, mixer.active())
}

func TestPlayer_Trigger(t *testing.T) {
	specs := ring()
	specs[2].TriggerKey = "k"
	ending := spec("end")
	ending.TriggerKey = "e"
	ending.Detached = true
	specs = append(specs, ending)

	p, _, _ := newPlayer(t, specs)

	p.Tick([]Action{{Kind: Trigger, Key: "missing"}})
	assert.Equal(t, transition.Idle, p.State().Status)

	p.Tick([]Action{{Kind: Trigger, Key: "k"}})
	assert.Equal(t, "c", p.State().To.ID)
	run(p, fps)

	p.Tick([]Action{{Kind: Trigger, Key: "e"}})
	assert.Equal(t, "end", p.State().To.ID)
	run(p, fps)
	assert.Equal(t, "end", p.Current().ID)

	// Endings continue with the start node.
	p.Tick([]Action{{Kind: Next}})
	assert.Equal(t, "a", p.State().To.ID)
}

func TestPlayer_PreviousWithoutPredecessor(t *testing.T) {
	a := spec("a")
	a.NextID = "b"
	b := spec("b")
	b.NextID = "c"
	c := spec("c")
	c.NextID = "b"

	p, _, _ := newPlayer(t, []phase.Spec{a, b, c})

	p.Tick([]Action{{Kind: Previous}})
	assert.Equal(t, transition.Idle, p.State().Status)
	assert.Equal(t, "a", p.Current().ID)

	p.Tick([]Action{{Kind: JumpPrevious}})
	assert.Equal(t, "a", p.Current().ID)
}

func TestPlayer_Autoplay(t *testing.T) {
	specs := ring()
	specs[0].Duration = 2 * time.Second

	p, _, _ := newPlayer(t, specs)

	run(p, 2*fps-1)
	assert.Equal(t, transition.Idle, p.State().Status)

	run(p, 1)
	st := p.State()
	require.Equal(t, transition.Fading, st.Status)
	assert.Equal(t, "b", st.To.ID)

	// b has no duration, so it stays put once reached.
	run(p, 10*fps)
	assert.Equal(t, "b", p.Current().ID)
	assert.Equal(t, transition.Idle, p.State().Status)
}

func TestPlayer_AutoplayResetsOnJump(t *testing.T) {
	specs := ring()
	specs[0].Duration = time.Second
	specs[2].Duration = time.Second

	p, _, _ := newPlayer(t, specs)

	run(p, fps-1)
	p.Tick([]Action{{Kind: JumpPrevious}})
	assert.Equal(t, "c", p.Current().ID)
	assert.Equal(t, transition.Idle, p.State().Status)

	// The jump tick is the first one spent on c.
	run(p, fps-2)
	assert.Equal(t, transition.Idle, p.State().Status)
	run(p, 1)
	assert.Equal(t, "a", p.State().To.ID)
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{Next, Previous, JumpNext, JumpPrevious, Trigger} {
		assert.True(t, k.Navigates(), k.String())
	}
	for _, k := range []Kind{Sound, Fullscreen, Controls, Quit} {
		assert.False(t, k.Navigates(), k.String())
	}
	assert.Equal(t, "jump_previous", JumpPrevious.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
