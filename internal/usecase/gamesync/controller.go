// Package gamesync keeps the local board in step with the remote engine: local clicks
// become actions, confirmed environments are rendered optimistically and then restored
// in full.
package gamesync

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"weiqi_client/internal/board"
	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/errors"
	"weiqi_client/internal/eventloop"
)

const DefaultConfirmDelay = 500 * time.Millisecond

// Engine accepts actions for the remote game engine. Action must not block on the
// round trip; the answer comes back through OnEnvironment.
type Engine interface {
	Action(a game.Action) error
}

// Messenger shows short notices to the player.
type Messenger interface {
	Show(text string)
}

// Host lists what the surrounding application may call on the controller.
type Host interface {
	SubmitAction(a game.Action) error
	OnEnvironment(env game.Environment) error
	ShowMessage(text string)
}

type State int

const (
	StateIdle State = iota
	StateAwaitingConfirm
)

func (s State) String() string {
	if s == StateAwaitingConfirm {
		return "AWAITING_CONFIRM"
	}
	return "IDLE"
}

// Stage tracks the render of the latest environment.
type Stage int

const (
	StageNone Stage = iota
	StageOptimisticRendered
	StageConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageOptimisticRendered:
		return "OPTIMISTIC_RENDERED"
	case StageConfirmed:
		return "CONFIRMED"
	}
	return "NONE"
}

type Config struct {
	Color        game.Color
	ConfirmDelay time.Duration
}

// Controller is not safe for concurrent use; every call must come from the UI loop.
type Controller struct {
	log      *zap.SugaredLogger
	board    board.Board
	engine   Engine
	sched    eventloop.Scheduler
	messages Messenger
	cfg      Config

	state   State
	stage   Stage
	pending *game.Action
	applied int
}

var _ Host = (*Controller)(nil)

func NewController(log *zap.SugaredLogger, b board.Board, engine Engine, sched eventloop.Scheduler, messages Messenger, cfg Config) *Controller {
	if cfg.ConfirmDelay <= 0 {
		cfg.ConfirmDelay = DefaultConfirmDelay
	}
	c := &Controller{
		log:      log,
		board:    b,
		engine:   engine,
		sched:    sched,
		messages: messages,
		cfg:      cfg,
	}
	b.OnClick(c.Click)
	return c
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Stage() Stage {
	return c.stage
}

// Pending returns the action waiting for confirmation, if any.
func (c *Controller) Pending() (game.Action, bool) {
	if c.pending == nil {
		return game.Action{}, false
	}
	return *c.pending, true
}

// Click turns a board click into a move. Clicks while a move is unconfirmed are dropped.
func (c *Controller) Click(x, y int) {
	if err := c.SubmitAction(game.NewMove(x, y, c.cfg.Color)); err != nil {
		c.log.Debugw("click ignored", "x", x, "y", y, "error", err)
	}
}

// Pass is bound to the pass control, board clicks never pass.
func (c *Controller) Pass() {
	if err := c.SubmitAction(game.NewPass(c.cfg.Color)); err != nil {
		c.log.Debugw("pass ignored", "error", err)
	}
}

func (c *Controller) SubmitAction(a game.Action) error {
	if c.state == StateAwaitingConfirm {
		return errors.ErrActionPending
	}

	c.state = StateAwaitingConfirm
	c.pending = &a
	if err := c.engine.Action(a); err != nil {
		c.state = StateIdle
		c.pending = nil
		c.log.Errorw("failed to send action", "action", a.String(), "error", err)
		c.ShowMessage("Failed to send move: " + err.Error())
		return fmt.Errorf("send action: %w", err)
	}

	c.log.Infow("action sent", "action", a.String())
	return nil
}

// OnEnvironment renders a confirmed environment: the stone goes on the board at once and
// the full state replaces the board after the confirm delay. Environments that do not
// answer the pending action (opponent moves, duplicates) are replayed the same way; the
// restore is a full overwrite, so repeating one is harmless.
func (c *Controller) OnEnvironment(env game.Environment) error {
	if err := env.Validate(); err != nil {
		c.log.Errorw("rejected environment", "error", err)
		return err
	}

	action, state := *env.Action, *env.State
	var answered *game.Action
	if c.matchesPending(action) {
		answered = c.pending
	} else {
		c.log.Debugw("replaying environment", "action", action.String(), "state", c.state.String())
	}

	c.applied++
	seq := c.applied

	// a coordinate of -1 on either axis has nothing to draw
	if action.X != game.PassCoord && action.Y != game.PassCoord {
		if err := c.board.PlaceStone(action.Stone()); err != nil {
			c.log.Errorw("optimistic placement failed", "action", action.String(), "error", err)
			return fmt.Errorf("optimistic render: %w", err)
		}
		c.stage = StageOptimisticRendered
	} else {
		c.stage = StageNone
	}

	c.sched.AfterFunc(c.cfg.ConfirmDelay, func() {
		c.confirm(seq, answered, state)
	})
	return nil
}

// OnState replaces the board with a position the engine sent outside any action, as it
// does when a player joins. The pending action, if any, stays pending.
func (c *Controller) OnState(state game.BoardState) error {
	if err := c.board.RestoreFullState(state); err != nil {
		c.log.Errorw("restore joined state failed", "error", err)
		return fmt.Errorf("restore state: %w", err)
	}
	c.applied++
	c.stage = StageConfirmed
	return nil
}

// OnReject is called when the engine refuses the pending action.
func (c *Controller) OnReject(reason string) {
	if c.state == StateAwaitingConfirm {
		c.log.Warnw("action rejected", "action", c.pending.String(), "reason", reason)
		c.state = StateIdle
		c.pending = nil
	}
	c.ShowMessage(reason)
}

func (c *Controller) matchesPending(a game.Action) bool {
	p := c.pending
	if p == nil || p.Color != a.Color {
		return false
	}
	if p.IsPass() || a.IsPass() {
		return p.IsPass() && a.IsPass()
	}
	return p.X == a.X && p.Y == a.Y
}

func (c *Controller) confirm(seq int, answered *game.Action, state game.BoardState) {
	if err := c.board.RestoreFullState(state); err != nil {
		c.log.Errorw("restore full state failed", "error", err)
	}
	if seq == c.applied {
		c.stage = StageConfirmed
	}
	// a newer action may be pending by now, only release the one this environment answered
	if answered != nil && c.pending == answered {
		c.state = StateIdle
		c.pending = nil
		c.log.Debugw("action confirmed", "action", answered.String())
	}
}

func (c *Controller) ShowMessage(text string) {
	if c.messages == nil {
		c.log.Info(text)
		return
	}
	c.messages.Show(text)
}
