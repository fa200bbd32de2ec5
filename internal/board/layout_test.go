package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weiqi_client/internal/domain/game"
)

func TestPixelLayoutAutoMargins(t *testing.T) {
	l := PixelLayout(game.DefaultBoardConfig(500), 19)
	unit := 500.0 / 21

	assert.InDelta(t, unit, l.UnitX, 1e-9)
	assert.InDelta(t, 1.5*unit, l.X(0), 1e-9)
	assert.InDelta(t, 19.5*unit, l.X(18), 1e-9)
	assert.InDelta(t, 500, l.Width(), 1e-9)
	assert.InDelta(t, 500, l.Height(), 1e-9)
	assert.InDelta(t, unit/2, l.StoneRadius(), 1e-9)

	// coordinate labels stay inside the field
	assert.Greater(t, l.X(-0.75), 0.0)
	assert.Less(t, l.X(18.75), 500.0)
}

func TestPixelLayoutExplicitMargins(t *testing.T) {
	cfg := game.BoardConfig{SizeInPixels: 400, Section: game.Section{Top: 0, Left: 0, Right: 1, Bottom: game.AutoMargin}}
	l := PixelLayout(cfg, 9)
	unit := 400.0 / 10

	assert.InDelta(t, unit/2, l.X(0), 1e-9)
	assert.InDelta(t, unit/2, l.Y(0), 1e-9)
	assert.InDelta(t, 400, l.Width(), 1e-9)
	assert.InDelta(t, 10*unit, l.Height(), 1e-9)
}

func TestPixelLayoutPointAtSnapsToNearestLine(t *testing.T) {
	l := PixelLayout(game.DefaultBoardConfig(500), 19)

	x, y, ok := l.PointAt(l.X(3)+l.UnitX*0.4, l.Y(4)-l.UnitY*0.4)
	assert.True(t, ok)
	assert.Equal(t, 3, x)
	assert.Equal(t, 4, y)

	_, _, ok = l.PointAt(l.X(-0.75), l.Y(0))
	assert.False(t, ok)
}

func TestCellLayoutPointAt(t *testing.T) {
	l := CellLayout(2, 1, game.DefaultBoardConfig(500), 9)

	// line 0 sits at column 2+3, its connector at column 6
	assert.Equal(t, 5.0, l.X(0))
	assert.Equal(t, 2.0, l.Y(0))

	for _, tc := range []struct {
		col, row int
		x, y     int
		ok       bool
	}{
		{col: 5, row: 2, x: 0, y: 0, ok: true},
		{col: 6, row: 2, x: 0, y: 0, ok: true},
		{col: 7, row: 3, x: 1, y: 1, ok: true},
		{col: 21, row: 10, x: 8, y: 8, ok: true},
		{col: 4, row: 2},
		{col: 23, row: 2},
		{col: 5, row: 1},
		{col: 5, row: 11},
	} {
		x, y, ok := l.PointAt(float64(tc.col), float64(tc.row))
		assert.Equal(t, tc.ok, ok, "cell (%d,%d)", tc.col, tc.row)
		if tc.ok {
			assert.Equal(t, tc.x, x, "cell (%d,%d)", tc.col, tc.row)
			assert.Equal(t, tc.y, y, "cell (%d,%d)", tc.col, tc.row)
		}
	}
}
