package gamesync

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"weiqi_client/internal/board"
	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/errors"
	"weiqi_client/internal/eventloop"
	"weiqi_client/internal/overlay"
)

// fakeBoard records every call and keeps a real model behind them.
type fakeBoard struct {
	model    *board.Model
	click    func(x, y int)
	placed   []game.Stone
	restored []game.BoardState
}

func newFakeBoard(t *testing.T, size int) *fakeBoard {
	m := board.NewModel()
	if size > 0 {
		require.NoError(t, m.SetSize(size))
	}
	return &fakeBoard{model: m}
}

func (b *fakeBoard) SetSize(n int) error { return b.model.SetSize(n) }

func (b *fakeBoard) OnClick(fn func(x, y int)) { b.click = fn }

func (b *fakeBoard) AddOverlay(overlay.Overlay) {}

func (b *fakeBoard) PlaceStone(s game.Stone) error {
	b.placed = append(b.placed, s)
	return b.model.Place(s)
}

func (b *fakeBoard) RestoreFullState(st game.BoardState) error {
	b.restored = append(b.restored, st)
	return b.model.Restore(st)
}

type fakeEngine struct {
	sent []game.Action
	err  error
}

func (e *fakeEngine) Action(a game.Action) error {
	if e.err != nil {
		return e.err
	}
	e.sent = append(e.sent, a)
	return nil
}

type fakeMessages struct{ shown []string }

func (m *fakeMessages) Show(text string) { m.shown = append(m.shown, text) }

type fixture struct {
	board    *fakeBoard
	engine   *fakeEngine
	sched    *eventloop.VirtualScheduler
	messages *fakeMessages
	ctrl     *Controller
}

func newFixture(t *testing.T, size int) *fixture {
	f := &fixture{
		board:    newFakeBoard(t, size),
		engine:   &fakeEngine{},
		sched:    eventloop.NewVirtualScheduler(),
		messages: &fakeMessages{},
	}
	f.ctrl = NewController(zaptest.NewLogger(t).Sugar(), f.board, f.engine, f.sched, f.messages, Config{Color: game.ColorBlack})
	return f
}

const (
	s1 = game.BoardState("(;FF[4]GM[1]SZ[19]AB[de])")
	s2 = game.BoardState("(;FF[4]GM[1]SZ[19]AB[de]AW[pp])")
)

func TestClickConfirmScenario(t *testing.T) {
	f := newFixture(t, 19)

	f.board.click(3, 4)
	require.Equal(t, []game.Action{game.NewMove(3, 4, game.ColorBlack)}, f.engine.sent)
	assert.Equal(t, StateAwaitingConfirm, f.ctrl.State())

	require.NoError(t, f.ctrl.OnEnvironment(game.NewEnvironment(game.NewMove(3, 4, game.ColorBlack), s1)))
	assert.Equal(t, game.ColorBlack, f.board.model.At(3, 4), "optimistic stone is placed at once")
	assert.Equal(t, StageOptimisticRendered, f.ctrl.Stage())
	assert.Empty(t, f.board.restored)

	f.sched.Advance(499 * time.Millisecond)
	assert.Empty(t, f.board.restored)
	assert.Equal(t, StateAwaitingConfirm, f.ctrl.State())

	f.sched.Advance(time.Millisecond)
	assert.Equal(t, []game.BoardState{s1}, f.board.restored)
	assert.Equal(t, s1, f.board.model.Snapshot())
	assert.Equal(t, StageConfirmed, f.ctrl.Stage())
	assert.Equal(t, StateIdle, f.ctrl.State())
	_, pending := f.ctrl.Pending()
	assert.False(t, pending)
}

func TestPassScenario(t *testing.T) {
	f := newFixture(t, 19)
	require.NoError(t, f.board.model.Restore(s1))

	f.ctrl.Pass()
	require.Equal(t, []game.Action{{Kind: game.KindPass, X: -1, Y: -1, Color: game.ColorBlack}}, f.engine.sent)
	assert.Equal(t, StateAwaitingConfirm, f.ctrl.State())

	require.NoError(t, f.ctrl.OnEnvironment(game.NewEnvironment(game.NewPass(game.ColorBlack), s2)))
	assert.Empty(t, f.board.placed, "a pass places nothing")
	assert.Equal(t, StageNone, f.ctrl.Stage())

	f.sched.Advance(500 * time.Millisecond)
	assert.Equal(t, s2, f.board.model.Snapshot())
	assert.Equal(t, StateIdle, f.ctrl.State())
}

func TestSecondActionIsGated(t *testing.T) {
	f := newFixture(t, 19)

	f.board.click(3, 4)
	f.board.click(5, 5)
	f.ctrl.Pass()
	assert.ErrorIs(t, f.ctrl.SubmitAction(game.NewMove(1, 1, game.ColorBlack)), errors.ErrActionPending)
	assert.Len(t, f.engine.sent, 1)

	// the optimistic window still counts as unconfirmed
	require.NoError(t, f.ctrl.OnEnvironment(game.NewEnvironment(game.NewMove(3, 4, game.ColorBlack), s1)))
	f.board.click(5, 5)
	assert.Len(t, f.engine.sent, 1)

	f.sched.Advance(500 * time.Millisecond)
	f.board.click(5, 5)
	assert.Equal(t, game.NewMove(5, 5, game.ColorBlack), f.engine.sent[1])
}

func TestClickProducesMoveForEveryPoint(t *testing.T) {
	for x := 0; x < 19; x++ {
		for y := 0; y < 19; y++ {
			f := newFixture(t, 19)
			f.board.click(x, y)
			require.Len(t, f.engine.sent, 1)
			a := f.engine.sent[0]
			assert.Equal(t, game.KindNormal, a.Kind)
			assert.Equal(t, [2]int{x, y}, [2]int{a.X, a.Y})
			assert.Equal(t, StateAwaitingConfirm, f.ctrl.State())
		}
	}
}

func TestEnvironmentIsIdempotent(t *testing.T) {
	once := newFixture(t, 19)
	twice := newFixture(t, 19)
	env := game.NewEnvironment(game.NewMove(15, 15, game.ColorWhite), s2)

	require.NoError(t, once.ctrl.OnEnvironment(env))
	require.NoError(t, twice.ctrl.OnEnvironment(env))
	require.NoError(t, twice.ctrl.OnEnvironment(env))
	once.sched.Advance(time.Second)
	twice.sched.Advance(time.Second)

	assert.Equal(t, once.board.model.Snapshot(), twice.board.model.Snapshot())
	assert.Equal(t, s2, twice.board.model.Snapshot())
	assert.Equal(t, StateIdle, twice.ctrl.State())
}

func TestOpponentEnvironmentDoesNotReleasePendingAction(t *testing.T) {
	f := newFixture(t, 19)

	f.board.click(3, 4)
	require.NoError(t, f.ctrl.OnEnvironment(game.NewEnvironment(game.NewMove(15, 15, game.ColorWhite), "(;SZ[19]AW[pp])")))
	f.sched.Advance(500 * time.Millisecond)

	assert.Equal(t, StateAwaitingConfirm, f.ctrl.State())
	pending, ok := f.ctrl.Pending()
	require.True(t, ok)
	assert.Equal(t, game.NewMove(3, 4, game.ColorBlack), pending)
}

func TestDuplicateConfirmationKeepsNewerActionPending(t *testing.T) {
	f := newFixture(t, 19)
	env := game.NewEnvironment(game.NewMove(3, 4, game.ColorBlack), s1)

	f.board.click(3, 4)
	require.NoError(t, f.ctrl.OnEnvironment(env))
	f.sched.Advance(100 * time.Millisecond)
	require.NoError(t, f.ctrl.OnEnvironment(env))
	f.sched.Advance(400 * time.Millisecond)
	assert.Equal(t, StateIdle, f.ctrl.State())

	f.board.click(15, 15)
	f.sched.Advance(100 * time.Millisecond)
	assert.Equal(t, StateAwaitingConfirm, f.ctrl.State(), "late duplicate must not release the new action")
	assert.Len(t, f.engine.sent, 2)
}

func TestMalformedEnvironmentFailsLoudly(t *testing.T) {
	f := newFixture(t, 19)
	f.board.click(3, 4)

	st := s1
	err := f.ctrl.OnEnvironment(game.Environment{State: &st})
	assert.ErrorIs(t, err, errors.ErrMalformedEnvironment)

	a := game.NewMove(3, 4, game.ColorBlack)
	err = f.ctrl.OnEnvironment(game.Environment{Action: &a})
	assert.ErrorIs(t, err, errors.ErrMalformedEnvironment)

	assert.Empty(t, f.board.placed)
	assert.Equal(t, 0, f.sched.Pending())
	assert.Equal(t, StateAwaitingConfirm, f.ctrl.State())
}

func TestRenderingErrorsPropagate(t *testing.T) {
	f := newFixture(t, 9)
	err := f.ctrl.OnEnvironment(game.NewEnvironment(game.NewMove(12, 12, game.ColorBlack), "(;SZ[9])"))
	assert.ErrorIs(t, err, errors.ErrOutOfBoard)
	assert.Equal(t, 0, f.sched.Pending())
}

func TestSendFailureReturnsToIdle(t *testing.T) {
	f := newFixture(t, 19)
	f.engine.err = stderrors.New("connection closed")

	err := f.ctrl.SubmitAction(game.NewMove(1, 1, game.ColorBlack))
	assert.Error(t, err)
	assert.Equal(t, StateIdle, f.ctrl.State())
	require.Len(t, f.messages.shown, 1)
	assert.Contains(t, f.messages.shown[0], "connection closed")
}

func TestRejectReleasesPendingAction(t *testing.T) {
	f := newFixture(t, 19)
	f.board.click(3, 4)

	f.ctrl.OnReject("point is occupied")
	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, []string{"point is occupied"}, f.messages.shown)

	f.board.click(5, 5)
	assert.Len(t, f.engine.sent, 2)
}

func TestShowMessageForwardsToBanner(t *testing.T) {
	f := newFixture(t, 19)
	var host Host = f.ctrl
	host.ShowMessage("Opponent is not connected")
	assert.Equal(t, []string{"Opponent is not connected"}, f.messages.shown)
}

func TestPassResetsStageOfPreviousEnvironment(t *testing.T) {
	f := newFixture(t, 19)
	require.NoError(t, f.ctrl.OnEnvironment(game.NewEnvironment(game.NewMove(3, 4, game.ColorBlack), s1)))
	f.sched.Advance(500 * time.Millisecond)
	require.Equal(t, StageConfirmed, f.ctrl.Stage())

	require.NoError(t, f.ctrl.OnEnvironment(game.NewEnvironment(game.NewPass(game.ColorWhite), s1)))
	assert.Equal(t, StageNone, f.ctrl.Stage())

	f.sched.Advance(500 * time.Millisecond)
	assert.Equal(t, StageConfirmed, f.ctrl.Stage())
}

func TestHalfPassCoordinatesAreNotDrawn(t *testing.T) {
	f := newFixture(t, 19)

	odd := game.Action{Kind: game.KindNormal, X: -1, Y: 5, Color: game.ColorWhite}
	require.NoError(t, f.ctrl.OnEnvironment(game.NewEnvironment(odd, s2)))
	assert.Empty(t, f.board.placed)
	assert.Equal(t, StageNone, f.ctrl.Stage())

	f.sched.Advance(500 * time.Millisecond)
	assert.Equal(t, []game.BoardState{s2}, f.board.restored)
	assert.Equal(t, s2, f.board.model.Snapshot())
}

func TestOnStateSizesBoardFromEngine(t *testing.T) {
	f := newFixture(t, 0)

	require.NoError(t, f.ctrl.OnState("(;FF[4]GM[1]SZ[9]AW[cc])"))
	assert.Equal(t, 9, f.board.model.Size())
	assert.Equal(t, game.ColorWhite, f.board.model.At(2, 2))
	assert.Equal(t, StageConfirmed, f.ctrl.Stage())
	assert.Equal(t, StateIdle, f.ctrl.State())

	f.board.click(3, 3)
	require.NoError(t, f.ctrl.OnEnvironment(game.NewEnvironment(game.NewMove(3, 3, game.ColorBlack), "(;FF[4]GM[1]SZ[9]AB[dd]AW[cc])")))
	f.sched.Advance(500 * time.Millisecond)
	assert.Equal(t, game.ColorBlack, f.board.model.At(3, 3))
	assert.Equal(t, StateIdle, f.ctrl.State())
}

func TestOnStateKeepsPendingAction(t *testing.T) {
	f := newFixture(t, 19)
	f.board.click(3, 4)

	err := f.ctrl.OnState("(;SZ[9])")
	assert.ErrorIs(t, err, errors.ErrBoardSizeLocked)

	require.NoError(t, f.ctrl.OnState(s1))
	assert.Equal(t, StateAwaitingConfirm, f.ctrl.State())
}
