package board

import (
	"math"

	"weiqi_client/internal/domain/game"
)

// auto margins, in grid units
const (
	pixelAutoMargin = 1
	cellAutoMarginX = 1.5
	cellAutoMarginY = 1

	cellWidth  = 2
	cellHeight = 1
)

// Layout maps fractional grid indices to drawing coordinates:
// X(i) = OriginX + (Left+i)*UnitX, Y(i) = OriginY + (Top+i)*UnitY.
type Layout struct {
	OriginX, OriginY float64
	UnitX, UnitY     float64
	Left, Top        float64
	Right, Bottom    float64
	Radius           float64
	// Snap is added before flooring in PointAt: 0.5 picks the nearest line,
	// 0 picks the line whose cell contains the point.
	Snap float64
	N    int
}

func (l Layout) X(i float64) float64 { return l.OriginX + (l.Left+i)*l.UnitX }

func (l Layout) Y(i float64) float64 { return l.OriginY + (l.Top+i)*l.UnitY }

func (l Layout) Size() int { return l.N }

func (l Layout) StoneRadius() float64 { return l.Radius }

// Width and Height of the whole field including margins.
func (l Layout) Width() float64 {
	return (l.Left + l.Right + float64(l.N)) * l.UnitX
}

func (l Layout) Height() float64 {
	return (l.Top + l.Bottom + float64(l.N)) * l.UnitY
}

// PointAt converts drawing coordinates back to a grid point.
func (l Layout) PointAt(px, py float64) (x, y int, ok bool) {
	x = int(math.Floor((px-l.OriginX)/l.UnitX - l.Left + l.Snap))
	y = int(math.Floor((py-l.OriginY)/l.UnitY - l.Top + l.Snap))
	if x < 0 || y < 0 || x >= l.N || y >= l.N {
		return 0, 0, false
	}
	return x, y, true
}

// PixelLayout spreads size + margins fields over SizeInPixels, lines in the field centers.
func PixelLayout(cfg game.BoardConfig, size int) Layout {
	left := margin(cfg.Section.Left, pixelAutoMargin)
	right := margin(cfg.Section.Right, pixelAutoMargin)
	top := margin(cfg.Section.Top, pixelAutoMargin)
	bottom := margin(cfg.Section.Bottom, pixelAutoMargin)

	unit := float64(cfg.SizeInPixels) / (float64(size) + left + right)
	return Layout{
		UnitX:  unit,
		UnitY:  unit,
		Left:   left + 0.5,
		Top:    top + 0.5,
		Right:  right - 0.5,
		Bottom: bottom - 0.5,
		Radius: unit / 2,
		Snap:   0.5,
		N:      size,
	}
}

// CellLayout places one point per 2x1 terminal cell block starting at the origin cell.
func CellLayout(originX, originY int, cfg game.BoardConfig, size int) Layout {
	return Layout{
		OriginX: float64(originX),
		OriginY: float64(originY),
		UnitX:   cellWidth,
		UnitY:   cellHeight,
		Left:    margin(cfg.Section.Left, cellAutoMarginX),
		Top:     margin(cfg.Section.Top, cellAutoMarginY),
		Right:   margin(cfg.Section.Right, cellAutoMarginX),
		Bottom:  margin(cfg.Section.Bottom, cellAutoMarginY),
		Radius:  1,
		N:       size,
	}
}

func margin(v int, auto float64) float64 {
	if v == game.AutoMargin {
		return auto
	}
	return float64(v)
}
