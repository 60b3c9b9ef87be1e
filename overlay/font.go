// Package overlay draws everything that sits on top of the phase images: the
// HUD, the loading screen and the controls panel.
package overlay

import (
	"bytes"
	"image/color"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// FontSize of HUD text on the logical surface.
const FontSize = 48

// LoadFaceSource reads a TTF or OTF file. An empty path selects the built in
// Go Regular font.
func LoadFaceSource(path string) (*text.GoTextFaceSource, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read font %s", path)
		}
		data = b
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "parse font %q", path)
	}
	return src, nil
}

var outlineOffsets = [][2]float64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// drawOutlined draws s at (x, y) in clr over a black outline.
func drawOutlined(dst *ebiten.Image, s string, face text.Face, x, y, width float64, clr color.Color) {
	for _, off := range outlineOffsets {
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+off[0]*width, y+off[1]*width)
		op.ColorScale.ScaleWithColor(color.Black)
		text.Draw(dst, s, face, op)
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}
