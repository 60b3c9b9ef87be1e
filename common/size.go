package common

// Logical surface every frame is composed on; ebiten letterboxes it into the
// window.
const (
	BaseWidth  = 2560
	BaseHeight = 1440
)
