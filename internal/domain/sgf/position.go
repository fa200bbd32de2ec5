package sgf

import (
	"fmt"
	"strconv"

	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/errors"
)

const DefaultBoardSize = 19

// MaxBoardSize is the largest board two-letter points can address (a..z, A..Z).
const MaxBoardSize = 52

// Position is a full board snapshot, Grid[y][x].
type Position struct {
	Size int
	Grid [][]game.Color
}

func NewPosition(size int) Position {
	grid := make([][]game.Color, size)
	for y := range grid {
		grid[y] = make([]game.Color, size)
	}
	return Position{Size: size, Grid: grid}
}

func (p Position) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.Size && y < p.Size
}

func (p Position) At(x, y int) game.Color {
	if !p.Contains(x, y) {
		return game.ColorNone
	}
	return p.Grid[y][x]
}

func (p Position) Set(x, y int, c game.Color) error {
	if !p.Contains(x, y) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d", errors.ErrOutOfBoard, x, y, p.Size, p.Size)
	}
	p.Grid[y][x] = c
	return nil
}

func (p Position) Stones() []game.Stone {
	var stones []game.Stone
	for y, row := range p.Grid {
		for x, c := range row {
			if c != game.ColorNone {
				stones = append(stones, game.Stone{X: x, Y: y, Color: c})
			}
		}
	}
	return stones
}

// PointToSGF encodes 0-based coordinates as two lowercase letters, "aa" is the top-left corner.
func PointToSGF(x, y int) string {
	return string([]byte{byte('a' + x), byte('a' + y)})
}

func SGFToPoint(s string) (x, y int, err error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'z' || s[1] < 'a' || s[1] > 'z' {
		return 0, 0, fmt.Errorf("%w: bad point %q", errors.ErrMalformedSGF, s)
	}
	return int(s[0] - 'a'), int(s[1] - 'a'), nil
}

// DecodePosition builds the position described by the main line of an SGF text.
// Setup properties (AB, AW, AE) and moves (B, W) are applied in order; captures are
// expected to be spelled out by the engine with AE.
func DecodePosition(text string) (Position, error) {
	tree, err := Parse(text)
	if err != nil {
		return Position{}, err
	}
	nodes := tree.MainLine()

	size := DefaultBoardSize
	if sz, ok := nodes[0].Get("SZ"); ok {
		size, err = strconv.Atoi(sz)
		if err != nil || size <= 0 || size > MaxBoardSize {
			return Position{}, fmt.Errorf("%w: bad board size %q", errors.ErrMalformedSGF, sz)
		}
	}

	pos := NewPosition(size)
	for _, node := range nodes {
		for _, step := range []struct {
			key   string
			color game.Color
			move  bool
		}{
			{"AE", game.ColorNone, false},
			{"AB", game.ColorBlack, false},
			{"AW", game.ColorWhite, false},
			{"B", game.ColorBlack, true},
			{"W", game.ColorWhite, true},
		} {
			for _, value := range node.Properties[step.key] {
				if step.move && isPassValue(value, size) {
					continue
				}
				x, y, err := SGFToPoint(value)
				if err != nil {
					return Position{}, err
				}
				if err = pos.Set(x, y, step.color); err != nil {
					return Position{}, err
				}
			}
		}
	}
	return pos, nil
}

func isPassValue(v string, size int) bool {
	return v == "" || (v == "tt" && size <= 19)
}

// EncodePosition writes the position as a single-node SGF snapshot.
func EncodePosition(p Position) string {
	root := NewNode()
	root.Add("FF", "4")
	root.Add("GM", "1")
	root.Add("SZ", strconv.Itoa(p.Size))
	for _, s := range p.Stones() {
		switch s.Color {
		case game.ColorBlack:
			root.Add("AB", PointToSGF(s.X, s.Y))
		case game.ColorWhite:
			root.Add("AW", PointToSGF(s.X, s.Y))
		}
	}
	return Serialize(&SGF{Root: &GameTree{Nodes: []Node{root}}})
}
