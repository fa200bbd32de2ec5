package overlay

import "strconv"

const (
	// labels sit just outside the first and the last line
	nearMargin = -0.75
	farMargin  = -0.25

	maxColumns = 25
)

type Axis int

const (
	AxisRow Axis = iota
	AxisColumn
)

type Label struct {
	Text string
	X, Y float64
	Axis Axis
}

// ColumnLetter maps a 0-based column to its letter. I is skipped, so 8 is J.
func ColumnLetter(i int) string {
	if i < 0 || i >= maxColumns {
		return ""
	}
	ch := 'A' + rune(i)
	if ch >= 'I' {
		ch++
	}
	return string(ch)
}

// RowLabel numbers rows from size at the top down to 1 at the bottom.
func RowLabel(size, i int) string {
	return strconv.Itoa(size - i)
}

// Labels computes every coordinate label for the grid: for each index a row label on
// both sides and a column label above and below.
func Labels(g Grid) []Label {
	size := g.Size()
	far := float64(size) + farMargin

	xLeft, xRight := g.X(nearMargin), g.X(far)
	yTop, yBottom := g.Y(nearMargin), g.Y(far)

	labels := make([]Label, 0, 4*size)
	for i := 0; i < size; i++ {
		row := RowLabel(size, i)
		y := g.Y(float64(i))
		labels = append(labels,
			Label{Text: row, X: xLeft, Y: y, Axis: AxisRow},
			Label{Text: row, X: xRight, Y: y, Axis: AxisRow},
		)

		col := ColumnLetter(i)
		x := g.X(float64(i))
		labels = append(labels,
			Label{Text: col, X: x, Y: yTop, Axis: AxisColumn},
			Label{Text: col, X: x, Y: yBottom, Axis: AxisColumn},
		)
	}
	return labels
}

// Coordinates is the grid overlay with row numbers and column letters.
type Coordinates struct {
	// FontRatio scales the stone radius into the font size.
	FontRatio float64
	FontName  string
}

func NewCoordinates(fontName string) *Coordinates {
	return &Coordinates{FontRatio: 1, FontName: fontName}
}

func (c *Coordinates) DrawGrid(cv Canvas, g Grid) {
	cv.SetTextStyle(TextStyle{
		FontSize: g.StoneRadius() * c.FontRatio,
		Fill:     "rgba(0,0,0,0.7)",
		Align:    AlignCenter,
		Middle:   true,
		FontName: c.FontName,
	})
	for _, l := range Labels(g) {
		cv.FillText(l.Text, l.X, l.Y)
	}
}
