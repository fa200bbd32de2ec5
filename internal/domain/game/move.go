package game

import (
	"fmt"
	"strings"
)

// Color of a stone. Values follow the rendering library: black is 1, white is -1.
type Color int

const (
	ColorNone  Color = 0
	ColorBlack Color = 1
	ColorWhite Color = -1
)

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return ColorBlack, nil
	case "w", "white":
		return ColorWhite, nil
	}
	return ColorNone, fmt.Errorf("unknown color %q", s)
}

func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "B"
	case ColorWhite:
		return "W"
	}
	return ""
}

func (c Color) Opponent() Color {
	return -c
}

func (c Color) MarshalText() ([]byte, error) {
	if c != ColorBlack && c != ColorWhite {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type ActionKind int

const (
	KindNormal ActionKind = iota
	KindPass
)

func (k ActionKind) String() string {
	if k == KindPass {
		return "PASS"
	}
	return "NORMAL"
}

func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "NORMAL", "STONE", "":
		*k = KindNormal
	case "PASS":
		*k = KindPass
	default:
		return fmt.Errorf("unknown action type %q", text)
	}
	return nil
}

// PassCoord is the coordinate value both axes carry for a pass.
const PassCoord = -1

// @name Action
type Action struct {
	Kind  ActionKind `json:"type"`
	X     int        `json:"x"`
	Y     int        `json:"y"`
	Color Color      `json:"c"`
}

func NewMove(x, y int, c Color) Action {
	return Action{Kind: KindNormal, X: x, Y: y, Color: c}
}

func NewPass(c Color) Action {
	return Action{Kind: KindPass, X: PassCoord, Y: PassCoord, Color: c}
}

// IsPass reports whether the action is a pass. The (-1,-1) coordinates decide, not Kind.
func (a Action) IsPass() bool {
	return a.X == PassCoord && a.Y == PassCoord
}

func (a Action) Stone() Stone {
	return Stone{X: a.X, Y: a.Y, Color: a.Color}
}

func (a Action) String() string {
	if a.IsPass() {
		return fmt.Sprintf("%s PASS", a.Color)
	}
	return fmt.Sprintf("%s (%d,%d)", a.Color, a.X, a.Y)
}

// @name Stone
type Stone struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Color Color `json:"c"`
}
