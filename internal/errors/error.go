package errors

import "errors"

var (
	ErrMalformedEnvironment = errors.New("malformed environment")
	ErrActionPending        = errors.New("action is awaiting confirmation")
	ErrBoardSizeLocked      = errors.New("board size is already set")
	ErrBoardSizeUnset       = errors.New("board size is not set")
	ErrOutOfBoard           = errors.New("point is outside the board")
	ErrPointOccupied        = errors.New("point is occupied")
	ErrGameNotFound         = errors.New("game not found")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrMalformedSGF         = errors.New("malformed sgf")
	ErrInvalidAction        = errors.New("invalid action")
	ErrNotConnected         = errors.New("engine is not connected")
	ErrSendQueueFull        = errors.New("send queue is full")
	ErrEngineResponse       = errors.New("unexpected engine response")
)
