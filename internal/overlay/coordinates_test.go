package overlay

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearGrid places line i at offset+i*unit on both axes.
type linearGrid struct {
	size         int
	offset, unit float64
}

func (g linearGrid) X(i float64) float64  { return g.offset + i*g.unit }
func (g linearGrid) Y(i float64) float64  { return g.offset + i*g.unit }
func (g linearGrid) Size() int            { return g.size }
func (g linearGrid) StoneRadius() float64 { return g.unit / 2 }

type recordingCanvas struct {
	styles []TextStyle
	texts  []Label
}

func (c *recordingCanvas) SetTextStyle(s TextStyle) { c.styles = append(c.styles, s) }

func (c *recordingCanvas) FillText(text string, x, y float64) {
	c.texts = append(c.texts, Label{Text: text, X: x, Y: y})
}

func TestColumnLetterSkipsI(t *testing.T) {
	var got string
	for i := 0; i < 25; i++ {
		got += ColumnLetter(i)
	}
	assert.Equal(t, "ABCDEFGHJKLMNOPQRSTUVWXYZ", got)
	assert.Equal(t, "H", ColumnLetter(7))
	assert.Equal(t, "J", ColumnLetter(8))
	assert.Equal(t, "", ColumnLetter(25))
	assert.Equal(t, "", ColumnLetter(-1))
}

func TestLabelsForEverySize(t *testing.T) {
	for n := 5; n <= 25; n++ {
		g := linearGrid{size: n, offset: 30, unit: 20}
		labels := Labels(g)
		require.Len(t, labels, 4*n)

		var rowsLeft, rowsRight, colsTop, colsBottom []string
		for _, l := range labels {
			switch {
			case l.Axis == AxisRow && l.X == g.X(-0.75):
				rowsLeft = append(rowsLeft, l.Text)
			case l.Axis == AxisRow && l.X == g.X(float64(n)-0.25):
				rowsRight = append(rowsRight, l.Text)
			case l.Axis == AxisColumn && l.Y == g.Y(-0.75):
				colsTop = append(colsTop, l.Text)
			case l.Axis == AxisColumn && l.Y == g.Y(float64(n)-0.25):
				colsBottom = append(colsBottom, l.Text)
			default:
				t.Fatalf("size %d: label %+v off the margins", n, l)
			}
		}

		wantRows := make([]string, n)
		wantCols := make([]string, n)
		for i := 0; i < n; i++ {
			wantRows[i] = strconv.Itoa(n - i)
			wantCols[i] = ColumnLetter(i)
		}
		assert.Equal(t, wantRows, rowsLeft, "size %d", n)
		assert.Equal(t, wantRows, rowsRight, "size %d", n)
		assert.Equal(t, wantCols, colsTop, "size %d", n)
		assert.Equal(t, wantCols, colsBottom, "size %d", n)
		if n > 8 {
			assert.Equal(t, "J", colsTop[8], "size %d", n)
			assert.Equal(t, "J", colsBottom[8], "size %d", n)
		}
	}
}

func TestLabelPositionsFollowTransform(t *testing.T) {
	g := linearGrid{size: 19, offset: 10, unit: 20}
	labels := Labels(g)

	// index 3: row label "16" and column "D"
	left, right, top, bottom := labels[12], labels[13], labels[14], labels[15]

	assert.Equal(t, Label{Text: "16", X: 10 - 15, Y: 70, Axis: AxisRow}, left)
	assert.Equal(t, Label{Text: "16", X: 10 + 18.75*20, Y: 70, Axis: AxisRow}, right)
	assert.Equal(t, Label{Text: "D", X: 70, Y: 10 - 15, Axis: AxisColumn}, top)
	assert.Equal(t, Label{Text: "D", X: 70, Y: 10 + 18.75*20, Axis: AxisColumn}, bottom)
}

func TestCoordinatesDrawIsStateless(t *testing.T) {
	c := NewCoordinates("Lato")
	small := linearGrid{size: 9, offset: 0, unit: 10}
	big := linearGrid{size: 19, offset: 0, unit: 10}

	first := &recordingCanvas{}
	c.DrawGrid(first, small)
	c.DrawGrid(&recordingCanvas{}, big)
	again := &recordingCanvas{}
	c.DrawGrid(again, small)

	assert.Equal(t, first.texts, again.texts)
	require.Len(t, first.texts, 36)
	require.Len(t, first.styles, 1)
	assert.Equal(t, 5.0, first.styles[0].FontSize)
	assert.Equal(t, AlignCenter, first.styles[0].Align)
	assert.True(t, first.styles[0].Middle)
}
