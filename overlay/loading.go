package overlay

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/phusic/assets"
	"github.com/milk9111/phusic/common"
)

const (
	dotSize   = 24
	dotSwing  = 120
	dotPeriod = 90
	barWidth  = 800
	barHeight = 16
)

var (
	backdrop = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xff}
	accent   = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
)

// Loading is the screen shown while assets decode.
type Loading struct {
	face text.Face
}

func NewLoading(src *text.GoTextFaceSource) *Loading {
	return &Loading{face: &text.GoTextFace{Source: src, Size: FontSize}}
}

// Caption is the line shown under the progress bar.
func Caption(st assets.Status) string {
	if st.Latest == "" {
		return "Loading..."
	}
	return "Loading: " + st.Latest
}

// Draw renders progress at frame tick; tick drives the dot.
func (l *Loading) Draw(screen *ebiten.Image, st assets.Status, tick int) {
	screen.Fill(backdrop)

	b := screen.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2

	swing := (math.Sin(2*math.Pi*float64(tick)/dotPeriod) + 1) / 2
	dx := common.Lerp(cx-dotSwing, cx+dotSwing, swing) - dotSize/2
	vector.FillRect(screen, float32(dx), float32(cy-120), dotSize, dotSize, accent, true)

	bx, by := float32(cx-barWidth/2), float32(cy)
	vector.StrokeRect(screen, bx, by, barWidth, barHeight, 2, accent, false)
	vector.FillRect(screen, bx, by, float32(barWidth*st.Fraction()), barHeight, accent, false)

	caption := Caption(st)
	w, _ := text.Measure(caption, l.face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx-w/2, cy+60)
	op.ColorScale.ScaleWithColor(accent)
	text.Draw(screen, caption, l.face, op)
}
