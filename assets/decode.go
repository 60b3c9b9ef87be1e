package assets

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

var ErrUnsupported = errors.New("assets: unsupported format")

// decodePCM decodes an audio file into Ebiten's native format (16 bit
// little endian stereo) at sampleRate.
func decodePCM(sampleRate int, path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	reader := bytes.NewReader(b)

	var stream io.Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, reader)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, reader)
	default:
		return nil, errors.Wrapf(ErrUnsupported, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return pcm, nil
}

func decodeImage(path string) (image.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return img, nil
}

func loadImage(path string) (*ebiten.Image, error) {
	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}
