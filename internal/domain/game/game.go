package game

import (
	"fmt"

	"weiqi_client/internal/errors"
)

// BoardState is an opaque position snapshot produced by the engine.
// Only board adapters decode it; everybody else replays it as a value.
type BoardState string

// Environment is the engine's authoritative answer: the validated action and
// the full position after it.
type Environment struct {
	Action *Action     `json:"action"`
	State  *BoardState `json:"state"`
}

func (e Environment) Validate() error {
	if e.Action == nil {
		return fmt.Errorf("%w: action is missing", errors.ErrMalformedEnvironment)
	}
	if e.State == nil {
		return fmt.Errorf("%w: state is missing", errors.ErrMalformedEnvironment)
	}
	return nil
}

func NewEnvironment(a Action, st BoardState) Environment {
	return Environment{Action: &a, State: &st}
}

// AutoMargin lets the board compute a section margin itself.
const AutoMargin = -1

type Section struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

type BoardConfig struct {
	SizeInPixels int     `json:"width"`
	Section      Section `json:"section"`
}

func DefaultBoardConfig(width int) BoardConfig {
	return BoardConfig{
		SizeInPixels: width,
		Section: Section{
			Top:    AutoMargin,
			Left:   AutoMargin,
			Right:  AutoMargin,
			Bottom: AutoMargin,
		},
	}
}

func (c BoardConfig) Validate() error {
	if c.SizeInPixels <= 0 {
		return fmt.Errorf("%w: board width must be positive, got %d", errors.ErrInvalidConfig, c.SizeInPixels)
	}
	for _, m := range []int{c.Section.Top, c.Section.Left, c.Section.Right, c.Section.Bottom} {
		if m < AutoMargin {
			return fmt.Errorf("%w: section margin %d", errors.ErrInvalidConfig, m)
		}
	}
	return nil
}

type GameCreateRequest struct {
	BoardSize int `json:"board_size"`
}

type GameCreateResponse struct {
	GameKey   string `json:"game_key"`
	BoardSize int    `json:"board_size"`
}

// Reject is sent to the player whose action the engine refused.
type Reject struct {
	Error string `json:"error"`
}

// StateSync carries the current position to a player who just joined.
type StateSync struct {
	State BoardState `json:"state"`
}
