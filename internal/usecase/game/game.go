package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/domain/sgf"
	"weiqi_client/internal/errors"
)

const (
	minBoardSize = 2
	maxBoardSize = 25
)

type PositionStore interface {
	SavePosition(ctx context.Context, key string, sgfText string) error
	LoadPosition(ctx context.Context, key string) (string, error)
}

// GameUseCase is the reference engine: it puts stones on empty points and reports the
// new position. It does not know the rules of Go, so nothing is ever captured.
type GameUseCase struct {
	log   *zap.SugaredLogger
	store PositionStore

	mu    sync.Mutex
	games map[string]*sync.Mutex
}

func NewGameUseCase(log *zap.SugaredLogger, store PositionStore) *GameUseCase {
	return &GameUseCase{
		log:   log,
		store: store,
		games: make(map[string]*sync.Mutex),
	}
}

func (g *GameUseCase) CreateGame(ctx context.Context, req game.GameCreateRequest) (game.GameCreateResponse, error) {
	size := req.BoardSize
	if size == 0 {
		size = sgf.DefaultBoardSize
	}
	if size < minBoardSize || size > maxBoardSize {
		return game.GameCreateResponse{}, fmt.Errorf("%w: board size %d not in %d..%d", errors.ErrInvalidConfig, size, minBoardSize, maxBoardSize)
	}

	gameKey := uuid.New().String()
	if err := g.store.SavePosition(ctx, gameKey, sgf.EncodePosition(sgf.NewPosition(size))); err != nil {
		return game.GameCreateResponse{}, fmt.Errorf("save new game: %w", err)
	}

	g.log.Infof("New game %s, board %dx%d", gameKey, size, size)
	return game.GameCreateResponse{GameKey: gameKey, BoardSize: size}, nil
}

func (g *GameUseCase) State(ctx context.Context, gameKey string) (game.BoardState, error) {
	sgfText, err := g.store.LoadPosition(ctx, gameKey)
	if err != nil {
		return "", err
	}
	return game.BoardState(sgfText), nil
}

// ApplyAction validates the action against the stored position and returns the
// environment to broadcast. A pass leaves the position unchanged.
func (g *GameUseCase) ApplyAction(ctx context.Context, gameKey string, a game.Action) (game.Environment, error) {
	lock := g.gameLock(gameKey)
	lock.Lock()
	defer lock.Unlock()

	if a.Color == game.ColorNone {
		return game.Environment{}, fmt.Errorf("%w: action without color", errors.ErrInvalidAction)
	}

	sgfText, err := g.store.LoadPosition(ctx, gameKey)
	if err != nil {
		return game.Environment{}, err
	}

	if a.Kind == game.KindPass || a.IsPass() {
		pass := game.NewPass(a.Color)
		return game.NewEnvironment(pass, game.BoardState(sgfText)), nil
	}

	pos, err := sgf.DecodePosition(sgfText)
	if err != nil {
		return game.Environment{}, fmt.Errorf("stored position of %s: %w", gameKey, err)
	}
	if !pos.Contains(a.X, a.Y) {
		return game.Environment{}, fmt.Errorf("%w: (%d,%d)", errors.ErrOutOfBoard, a.X, a.Y)
	}
	if pos.At(a.X, a.Y) != game.ColorNone {
		return game.Environment{}, fmt.Errorf("%w: (%d,%d)", errors.ErrPointOccupied, a.X, a.Y)
	}
	if err = pos.Set(a.X, a.Y, a.Color); err != nil {
		return game.Environment{}, err
	}

	next := sgf.EncodePosition(pos)
	if err = g.store.SavePosition(ctx, gameKey, next); err != nil {
		return game.Environment{}, fmt.Errorf("save position: %w", err)
	}

	g.log.Debugf("game %s: %s", gameKey, a.String())
	return game.NewEnvironment(a, game.BoardState(next)), nil
}

func (g *GameUseCase) gameLock(gameKey string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, ok := g.games[gameKey]
	if !ok {
		lock = &sync.Mutex{}
		g.games[gameKey] = lock
	}
	return lock
}
