package assets

import (
	"bytes"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/phusic/phase"
)

// SampleRate of the shared audio context.
const SampleRate = 44100

var ErrNotLoaded = errors.New("assets: not loaded")

type scaleKey struct {
	path string
	w, h int
}

// Library owns decoded assets and one audio player per phase node. Decoding
// may run on loader goroutines; playback calls come from the game loop after
// Bind.
type Library struct {
	audioCtx *audio.Context

	mu     sync.RWMutex
	pcm    map[string][]byte
	images map[string]*ebiten.Image
	scaled map[scaleKey]*ebiten.Image

	nodes   map[string]*phase.Node
	sounds  map[string]string
	tracks  map[string]*audio.Player
	effects map[string]*audio.Player
	opacity map[string]float64
}

func NewLibrary(audioCtx *audio.Context) *Library {
	return &Library{
		audioCtx: audioCtx,
		pcm:      make(map[string][]byte),
		images:   make(map[string]*ebiten.Image),
		scaled:   make(map[scaleKey]*ebiten.Image),
		nodes:    make(map[string]*phase.Node),
		sounds:   make(map[string]string),
		tracks:   make(map[string]*audio.Player),
		effects:  make(map[string]*audio.Player),
		opacity:  make(map[string]float64),
	}
}

// Register records the nodes of g whose assets have to be loaded.
func (l *Library) Register(g *phase.Graph) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range g.Nodes() {
		l.nodes[n.ID] = n
	}
}

// RegisterSounds records keyed sound effects by name.
func (l *Library) RegisterSounds(sounds []Sound) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range sounds {
		l.sounds[s.Name] = s.Path
	}
}

// Paths returns the unique audio and image files of everything registered.
func (l *Library) Paths() (audioPaths, imagePaths []string) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seenAudio := make(map[string]bool)
	seenImage := make(map[string]bool)
	for _, n := range l.nodes {
		seenAudio[n.Audio] = true
		seenImage[n.Image] = true
	}
	for _, path := range l.sounds {
		seenAudio[path] = true
	}
	return sortedKeys(seenAudio), sortedKeys(seenImage)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (l *Library) LoadAudio(path string) error {
	pcm, err := decodePCM(SampleRate, path)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.pcm[path] = pcm
	l.mu.Unlock()
	return nil
}

func (l *Library) LoadImage(path string) error {
	img, err := loadImage(path)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.images[path] = img
	l.mu.Unlock()
	return nil
}

// Bind creates a looping player for every registered node and a one-shot
// player for every sound effect. Every path must be loaded.
func (l *Library) Bind() error {
	if l.audioCtx == nil {
		return errors.Wrap(ErrNotLoaded, "no audio context")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, n := range l.nodes {
		if _, ok := l.images[n.Image]; !ok {
			return errors.Wrapf(ErrNotLoaded, "image %s of %s", n.Image, id)
		}
		pcm, ok := l.pcm[n.Audio]
		if !ok {
			return errors.Wrapf(ErrNotLoaded, "audio %s of %s", n.Audio, id)
		}
		loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
		p, err := l.audioCtx.NewPlayer(loop)
		if err != nil {
			return errors.Wrapf(err, "player for %s", id)
		}
		l.tracks[id] = p
	}

	for name, path := range l.sounds {
		pcm, ok := l.pcm[path]
		if !ok {
			return errors.Wrapf(ErrNotLoaded, "sound %s", name)
		}
		l.effects[name] = l.audioCtx.NewPlayerFromBytes(pcm)
	}
	return nil
}

func (l *Library) track(id string) *audio.Player {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tracks[id]
}

// Play implements transition.Mixer.
func (l *Library) Play(id string) {
	p := l.track(id)
	if p == nil {
		zlog.Warn().Str("node", id).Msg("no audio player bound")
		return
	}
	if err := p.Rewind(); err != nil {
		zlog.Warn().Err(err).Str("node", id).Msg("rewind failed")
	}
	p.Play()
}

// SetGain implements transition.Mixer.
func (l *Library) SetGain(id string, gain float64) {
	if p := l.track(id); p != nil {
		p.SetVolume(gain)
	}
}

// Stop implements transition.Mixer.
func (l *Library) Stop(id string) {
	if p := l.track(id); p != nil {
		p.Pause()
	}
}

// SetOpacity implements transition.Canvas.
func (l *Library) SetOpacity(id string, alpha float64) {
	l.mu.Lock()
	l.opacity[id] = alpha
	l.mu.Unlock()
}

func (l *Library) Opacity(id string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.opacity[id]
}

// Trigger plays a sound effect from the start.
func (l *Library) Trigger(name string) {
	l.mu.RLock()
	p := l.effects[name]
	l.mu.RUnlock()
	if p == nil {
		zlog.Warn().Str("sfx", name).Msg("unknown sound effect")
		return
	}
	if err := p.Rewind(); err != nil {
		zlog.Warn().Err(err).Str("sfx", name).Msg("rewind failed")
	}
	p.Play()
}

// Scaled returns the node's background stretched to w x h. Copies are cached
// per image file and size.
func (l *Library) Scaled(id string, w, h int) *ebiten.Image {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, ok := l.nodes[id]
	if !ok {
		return nil
	}
	key := scaleKey{path: n.Image, w: w, h: h}
	if img, ok := l.scaled[key]; ok {
		return img
	}
	src, ok := l.images[n.Image]
	if !ok {
		return nil
	}

	dst := ebiten.NewImage(w, h)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w)/float64(src.Bounds().Dx()), float64(h)/float64(src.Bounds().Dy()))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
	l.scaled[key] = dst
	return dst
}
