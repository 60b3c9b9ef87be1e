package overlay

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/phusic/common"
	"github.com/milk9111/phusic/input"
)

const (
	titleSize = 40
	rowSize   = 28
)

// NewControlsUI builds a centered panel listing every control, one titled
// two column grid per section.
func NewControlsUI(sections []input.Section, src *text.GoTextFaceSource) *ebitenui.UI {
	// semi-transparent panel background
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})

	var titleFace text.Face = &text.GoTextFace{Source: src, Size: titleSize}
	var rowFace text.Face = &text.GoTextFace{Source: src, Size: rowSize}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	grey := color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(16),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 40, Bottom: 40, Left: 60, Right: 60}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/3, common.BaseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)

	for _, s := range sections {
		if len(s.Rows) == 0 {
			continue
		}
		panel.AddChild(widget.NewText(
			widget.TextOpts.Text(s.Title, &titleFace, white),
		))

		grid := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewGridLayout(
				widget.GridLayoutOpts.Columns(2),
				widget.GridLayoutOpts.Spacing(80, 8),
			)),
		)
		for _, r := range s.Rows {
			grid.AddChild(widget.NewText(widget.TextOpts.Text(r.Action, &rowFace, white)))
			grid.AddChild(widget.NewText(widget.TextOpts.Text(r.Key, &rowFace, grey)))
		}
		panel.AddChild(grid)
	}

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}
