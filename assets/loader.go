package assets

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Status is a loading progress snapshot.
type Status struct {
	Loading bool
	Latest  string
	Done    int
	Total   int
}

// Fraction of work finished, in [0, 1].
func (s Status) Fraction() float64 {
	if s.Total == 0 {
		return 1
	}
	return float64(s.Done) / float64(s.Total)
}

// Store is what the loader fills.
type Store interface {
	Paths() (audio, images []string)
	LoadAudio(path string) error
	LoadImage(path string) error
}

// Loader decodes every registered asset on background workers once, before
// playback starts.
type Loader struct {
	store   Store
	workers int

	mu     sync.Mutex
	latest string
	err    error

	done    atomic.Int64
	total   int
	started atomic.Bool
	ready   chan struct{}
}

func NewLoader(store Store, workers int) *Loader {
	if workers <= 0 {
		workers = 1
	}
	return &Loader{store: store, workers: workers, ready: make(chan struct{})}
}

// Start begins loading in the background. Calling it again has no effect.
func (l *Loader) Start(ctx context.Context) {
	if !l.started.CompareAndSwap(false, true) {
		return
	}

	audioPaths, imagePaths := l.store.Paths()
	l.mu.Lock()
	l.total = len(audioPaths) + len(imagePaths)
	l.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	schedule := func(paths []string, load func(string) error) {
		for _, path := range paths {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := load(path); err != nil {
					return err
				}
				l.loaded(path)
				return nil
			})
		}
	}

	go func() {
		schedule(audioPaths, l.store.LoadAudio)
		schedule(imagePaths, l.store.LoadImage)
		err := g.Wait()

		l.mu.Lock()
		l.err = err
		l.mu.Unlock()
		if err != nil {
			zlog.Error().Err(err).Msg("asset loading failed")
		} else {
			zlog.Info().Int("assets", l.total).Msg("assets loaded")
		}
		close(l.ready)
	}()
}

func (l *Loader) loaded(path string) {
	l.done.Add(1)
	l.mu.Lock()
	l.latest = filepath.Base(path)
	l.mu.Unlock()
	zlog.Debug().Str("path", path).Msg("asset loaded")
}

// Ready is closed once loading finished, successfully or not.
func (l *Loader) Ready() <-chan struct{} {
	return l.ready
}

// Err returns the first loading error after Ready is closed.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	loading := true
	select {
	case <-l.ready:
		loading = false
	default:
	}
	return Status{
		Loading: loading,
		Latest:  l.latest,
		Done:    int(l.done.Load()),
		Total:   l.total,
	}
}
