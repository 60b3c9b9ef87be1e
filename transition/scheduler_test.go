package transition

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/phusic/phase"
)

type fakeMixer struct {
	gain    map[string]float64
	playing map[string]bool
	plays   map[string]int
}

func newFakeMixer() *fakeMixer {
	return &fakeMixer{
		gain:    make(map[string]float64),
		playing: make(map[string]bool),
		plays:   make(map[string]int),
	}
}

func (m *fakeMixer) Play(id string) {
	m.playing[id] = true
	m.plays[id]++
}

func (m *fakeMixer) SetGain(id string, gain float64) { m.gain[id] = gain }

func (m *fakeMixer) Stop(id string) { m.playing[id] = false }

func (m *fakeMixer) active() []string {
	var out []string
	for id, on := range m.playing {
		if on {
			out = append(out, id)
		}
	}
	return out
}

type fakeCanvas map[string]float64

func (c fakeCanvas) SetOpacity(id string, alpha float64) { c[id] = alpha }

func nodes(names ...string) []*phase.Node {
	out := make([]*phase.Node, 0, len(names))
	for _, n := range names {
		out = append(out, &phase.Node{ID: n, PhaseID: n, Name: n})
	}
	return out
}

func newScheduler(t *testing.T, start *phase.Node, seconds int, fps int) (*Scheduler, *fakeMixer, fakeCanvas) {
	t.Helper()
	mixer := newFakeMixer()
	canvas := fakeCanvas{}
	s, err := NewScheduler(start, mixer, canvas, Config{Duration: time.Duration(seconds) * time.Second, FrameRate: fps})
	require.NoError(t, err)
	return s, mixer, canvas
}

func TestNewScheduler(t *testing.T) {
	n := nodes("a")
	s, mixer, canvas := newScheduler(t, n[0], 5, 60)

	st := s.State()
	assert.Equal(t, Idle, st.Status)
	assert.Same(t, n[0], st.Current)
	assert.Equal(t, 1.0, mixer.gain["a"])
	assert.True(t, mixer.playing["a"])
	assert.Equal(t, 1.0, canvas["a"])
	assert.Equal(t, 300, s.Frames())
}

func TestNewScheduler_InvalidConfig(t *testing.T) {
	n := nodes("a")
	tests := []struct {
		name  string
		start *phase.Node
		cfg   Config
	}{
		{name: "nil start", cfg: Config{Duration: time.Second, FrameRate: 60}},
		{name: "zero duration", start: n[0], cfg: Config{FrameRate: 60}},
		{name: "zero fps", start: n[0], cfg: Config{Duration: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScheduler(tt.start, newFakeMixer(), fakeCanvas{}, tt.cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestScheduler_RequestStartsSilentFade(t *testing.T) {
	n := nodes("a", "b")
	s, mixer, canvas := newScheduler(t, n[0], 5, 60)

	require.True(t, s.Request(n[1]))

	st := s.State()
	assert.Equal(t, Fading, st.Status)
	assert.Same(t, n[0], st.From)
	assert.Same(t, n[1], st.To)
	assert.Equal(t, 0.0, st.Progress)
	assert.True(t, mixer.playing["b"])
	assert.Equal(t, 0.0, mixer.gain["b"])
	assert.Equal(t, 0.0, canvas["b"])
}

func TestScheduler_RequestWhileFadingIsIgnored(t *testing.T) {
	n := nodes("a", "b", "c")
	s, mixer, _ := newScheduler(t, n[0], 5, 60)

	require.True(t, s.Request(n[1]))
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	before := s.State()

	assert.False(t, s.Request(n[2]))
	assert.Equal(t, before, s.State())
	assert.False(t, mixer.playing["c"])
}

func TestScheduler_RequestIgnoresCurrentAndNil(t *testing.T) {
	n := nodes("a")
	s, _, _ := newScheduler(t, n[0], 5, 60)

	assert.False(t, s.Request(nil))
	assert.False(t, s.Request(n[0]))
	assert.Equal(t, Idle, s.State().Status)
}

func TestScheduler_CommitsAfterDurationTimesFrameRate(t *testing.T) {
	tests := []struct {
		seconds int
		fps     int
	}{
		{seconds: 5, fps: 60},
		{seconds: 5, fps: 20},
		{seconds: 6, fps: 60},
		{seconds: 1, fps: 144},
		{seconds: 3, fps: 30},
	}

	for _, tt := range tests {
		n := nodes("a", "b")
		s, mixer, canvas := newScheduler(t, n[0], tt.seconds, tt.fps)
		require.True(t, s.Request(n[1]))

		want := tt.seconds * tt.fps
		for i := 1; i < want; i++ {
			require.False(t, s.Tick(), "committed early at tick %d of %d", i, want)
			require.Equal(t, Fading, s.State().Status)
		}
		require.True(t, s.Tick(), "no commit at tick %d", want)

		st := s.State()
		assert.Equal(t, Idle, st.Status)
		assert.Same(t, n[1], st.Current)
		assert.Nil(t, st.To)
		assert.False(t, mixer.playing["a"])
		assert.True(t, mixer.playing["b"])
		assert.Equal(t, 1.0, mixer.gain["b"])
		assert.Equal(t, 1.0, canvas["b"])
	}
}

func TestScheduler_GainsSumToOne(t *testing.T) {
	n := nodes("a", "b")
	s, mixer, canvas := newScheduler(t, n[0], 5, 60)
	require.True(t, s.Request(n[1]))

	prev := 0.0
	for s.Fading() {
		s.Tick()
		assert.InDelta(t, 1.0, mixer.gain["a"]+mixer.gain["b"], 1e-9)
		assert.Equal(t, mixer.gain["b"], canvas["b"])
		assert.GreaterOrEqual(t, mixer.gain["b"], prev)
		prev = mixer.gain["b"]
	}
}

func TestScheduler_TickWhileIdleIsNoop(t *testing.T) {
	n := nodes("a")
	s, mixer, _ := newScheduler(t, n[0], 5, 60)

	assert.False(t, s.Tick())
	assert.Equal(t, 1.0, mixer.gain["a"])
}

func TestScheduler_Set(t *testing.T) {
	tests := []struct {
		name   string
		fading bool
	}{
		{name: "from idle", fading: false},
		{name: "mid fade", fading: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := nodes("a", "b", "c")
			s, mixer, canvas := newScheduler(t, n[0], 5, 60)
			if tt.fading {
				require.True(t, s.Request(n[1]))
				s.Tick()
			}

			s.Set(n[2])

			st := s.State()
			assert.Equal(t, Idle, st.Status)
			assert.Same(t, n[2], st.Current)
			assert.Equal(t, []string{"c"}, mixer.active())
			assert.Equal(t, 1.0, mixer.gain["c"])
			assert.Equal(t, 1.0, canvas["c"])

			base, overlay, _ := s.Layers()
			assert.Same(t, n[2], base)
			assert.Nil(t, overlay)
		})
	}
}

func TestScheduler_Layers(t *testing.T) {
	n := nodes("a", "b")
	s, _, _ := newScheduler(t, n[0], 1, 10)
	require.True(t, s.Request(n[1]))
	s.Tick()
	s.Tick()

	base, overlay, alpha := s.Layers()
	assert.Same(t, n[0], base)
	assert.Same(t, n[1], overlay)
	assert.InDelta(t, 0.2, alpha, 1e-9)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "fading", Fading.String())
	assert.Equal(t, "unknown", Status(9).String())
}
