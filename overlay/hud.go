package overlay

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	margin       = 40
	outlineWidth = 2
	clockLayout  = "15:04"
)

// HUD shows the phase name in the bottom left corner and the local time in
// the bottom right corner.
type HUD struct {
	face text.Face
	now  func() time.Time
}

func NewHUD(src *text.GoTextFaceSource) *HUD {
	return &HUD{
		face: &text.GoTextFace{Source: src, Size: FontSize},
		now:  time.Now,
	}
}

// Clock is the text the HUD shows for t.
func Clock(t time.Time) string {
	return t.Format(clockLayout)
}

// Draw renders the HUD. An empty name is not drawn; the caller clears it
// while a fade runs.
func (h *HUD) Draw(screen *ebiten.Image, name string) {
	b := screen.Bounds()
	_, lineH := text.Measure("0", h.face, 0)
	y := float64(b.Dy()) - margin - lineH

	if name != "" {
		drawOutlined(screen, name, h.face, margin, y, outlineWidth, color.White)
	}

	clock := Clock(h.now())
	w, _ := text.Measure(clock, h.face, 0)
	drawOutlined(screen, clock, h.face, float64(b.Dx())-margin-w, y, outlineWidth, color.White)
}
