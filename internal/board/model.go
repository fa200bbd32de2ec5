package board

import (
	"fmt"

	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/domain/sgf"
	"weiqi_client/internal/errors"
)

// Model is the in-memory picture every renderer draws from.
type Model struct {
	pos   sgf.Position
	sized bool
	last  *game.Stone
}

func NewModel() *Model {
	return &Model{}
}

func (m *Model) SetSize(n int) error {
	if m.sized {
		if n == m.pos.Size {
			return nil
		}
		return fmt.Errorf("%w: %d, requested %d", errors.ErrBoardSizeLocked, m.pos.Size, n)
	}
	if n < MinSize || n > MaxSize {
		return fmt.Errorf("%w: board size %d not in %d..%d", errors.ErrInvalidConfig, n, MinSize, MaxSize)
	}
	m.pos = sgf.NewPosition(n)
	m.sized = true
	return nil
}

func (m *Model) Size() int {
	return m.pos.Size
}

func (m *Model) Sized() bool {
	return m.sized
}

func (m *Model) Place(s game.Stone) error {
	if !m.sized {
		return errors.ErrBoardSizeUnset
	}
	if err := m.pos.Set(s.X, s.Y, s.Color); err != nil {
		return err
	}
	m.last = &s
	return nil
}

// Restore replaces the whole position. An unsized model takes the snapshot's size.
func (m *Model) Restore(st game.BoardState) error {
	pos, err := sgf.DecodePosition(string(st))
	if err != nil {
		return fmt.Errorf("decode board state: %w", err)
	}
	if m.sized && pos.Size != m.pos.Size {
		return fmt.Errorf("%w: %d, state has %d", errors.ErrBoardSizeLocked, m.pos.Size, pos.Size)
	}
	if pos.Size < MinSize || pos.Size > MaxSize {
		return fmt.Errorf("%w: board size %d", errors.ErrInvalidConfig, pos.Size)
	}
	m.pos = pos
	m.sized = true
	if m.last != nil && pos.At(m.last.X, m.last.Y) != m.last.Color {
		m.last = nil
	}
	return nil
}

func (m *Model) At(x, y int) game.Color {
	return m.pos.At(x, y)
}

func (m *Model) Stones() []game.Stone {
	return m.pos.Stones()
}

// LastPlaced is the most recent optimistic stone still on the board.
func (m *Model) LastPlaced() (game.Stone, bool) {
	if m.last == nil {
		return game.Stone{}, false
	}
	return *m.last, true
}

// Snapshot encodes the current picture in the engine's state format.
func (m *Model) Snapshot() game.BoardState {
	return game.BoardState(sgf.EncodePosition(m.pos))
}
