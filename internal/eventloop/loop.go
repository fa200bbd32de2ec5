// Package eventloop runs every UI mutation on a single goroutine.
package eventloop

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d. Implementations must call fn on the UI goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type Loop struct {
	queue     chan func()
	done      chan struct{}
	afterEach func()
	log       *zap.SugaredLogger
}

func New(log *zap.SugaredLogger, queueSize int) *Loop {
	return &Loop{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
		log:   log,
	}
}

// SetAfterEach registers a hook run after every posted callback, typically a redraw.
// Must be called before Run.
func (l *Loop) SetAfterEach(fn func()) {
	l.afterEach = fn
}

// Post queues fn for the UI goroutine. It returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	l.log.Debug("event loop started")
	for {
		select {
		case <-ctx.Done():
			l.log.Debug("event loop stopped")
			return ctx.Err()
		case fn := <-l.queue:
			fn()
			if l.afterEach != nil {
				l.afterEach()
			}
		}
	}
}

// AfterFunc fires on a runtime timer and hands fn over to the loop.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() {
		if !l.Post(fn) {
			l.log.Debugw("timer fired after loop stopped", "delay", d)
		}
	})
}
