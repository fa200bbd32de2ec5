// Package overlay draws custom layers on top of the board grid.
package overlay

// Grid is the pixel-space transform of a board. Indices are fractional grid units,
// 0..Size()-1 being the playable lines.
type Grid interface {
	X(i float64) float64
	Y(i float64) float64
	Size() int
	StoneRadius() float64
}

type Align int

const (
	AlignCenter Align = iota
	AlignLeft
)

type TextStyle struct {
	FontSize float64
	// Fill is a CSS-like color, e.g. "rgba(0,0,0,0.7)".
	Fill     string
	Align    Align
	Middle   bool
	FontName string
}

// Canvas is the raw drawing context handed to overlays.
type Canvas interface {
	SetTextStyle(style TextStyle)
	FillText(text string, x, y float64)
}

// Overlay is drawn every time the grid layer is redrawn.
type Overlay interface {
	DrawGrid(c Canvas, g Grid)
}
