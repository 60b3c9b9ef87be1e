package assets

import (
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/milk9111/phusic/config"
	"github.com/milk9111/phusic/phase"
)

// Expand pairs every image with a soundtrack. Images keep their (sorted)
// order; audio is drawn uniformly at random or taken positionally, wrapping
// when there are fewer tracks than images.
func Expand(audio, images []string, pairing string, rng *rand.Rand) []phase.Variant {
	if len(audio) == 0 {
		return nil
	}
	out := make([]phase.Variant, 0, len(images))
	for i, img := range images {
		var track string
		switch pairing {
		case config.PairPositional:
			track = audio[i%len(audio)]
		default:
			track = audio[rng.IntN(len(audio))]
		}
		out = append(out, phase.Variant{Audio: track, Image: img})
	}
	return out
}

// NewRand returns the pairing source for seed; zero seeds from the clock.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Sound is a keyed sound effect resolved to a file.
type Sound struct {
	Name string
	Key  string
	Path string
}

// Specs resolves and expands the phases and endings of cfg.
func Specs(cfg *config.Config, catalog *Catalog, rng *rand.Rand) ([]phase.Spec, error) {
	specs := make([]phase.Spec, 0, len(cfg.Phases)+len(cfg.Endings))

	for _, p := range cfg.Phases {
		var audio []string
		for _, track := range p.Soundtracks {
			files, err := resolveFiles(catalog, track, AudioExts)
			if err != nil {
				return nil, errors.Wrapf(err, "phase %q soundtrack", p.ID())
			}
			audio = append(audio, files...)
		}
		images, err := resolveFiles(catalog, p.Img, ImageExts)
		if err != nil {
			return nil, errors.Wrapf(err, "phase %q image", p.ID())
		}

		specs = append(specs, phase.Spec{
			ID:         p.ID(),
			Name:       p.Name,
			Variants:   Expand(audio, images, cfg.Pairing, rng),
			TriggerKey: p.Key,
			NextID:     p.NextPhase,
			Duration:   p.AutoplayDuration(),
		})
	}

	for _, e := range cfg.Endings {
		audio, err := resolveFiles(catalog, e.Audio, AudioExts)
		if err != nil {
			return nil, errors.Wrapf(err, "ending %q audio", e.Name)
		}
		images, err := resolveFiles(catalog, e.Img, ImageExts)
		if err != nil {
			return nil, errors.Wrapf(err, "ending %q image", e.Name)
		}

		specs = append(specs, phase.Spec{
			ID:   e.ID(),
			Name: e.Name,
			Variants: []phase.Variant{{
				Audio: audio[rng.IntN(len(audio))],
				Image: images[rng.IntN(len(images))],
			}},
			TriggerKey: e.Key,
			Detached:   true,
		})
	}

	return specs, nil
}

// Sounds resolves the configured sound effects.
func Sounds(cfg *config.Config, catalog *Catalog) ([]Sound, error) {
	out := make([]Sound, 0, len(cfg.Sfx))
	for _, s := range cfg.Sfx {
		path, err := catalog.Resolve(s.Audio)
		if err != nil {
			return nil, errors.Wrapf(err, "sfx %q", s.Name)
		}
		out = append(out, Sound{Name: s.Name, Key: s.Key, Path: path})
	}
	return out, nil
}

func resolveFiles(catalog *Catalog, asset string, exts []string) ([]string, error) {
	path, err := catalog.Resolve(asset)
	if err != nil {
		return nil, err
	}
	files, err := ListFiles(path, false, exts...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "no usable files in %s", path)
	}
	return files, nil
}
