// Package banner shows short-lived text notifications.
package banner

import (
	"time"

	"go.uber.org/zap"

	"weiqi_client/internal/eventloop"
)

const DefaultTimeout = 3000 * time.Millisecond

// View is the surface the banner writes to.
type View interface {
	SetText(text string)
	Show()
	Hide()
}

// Banner keeps one message on screen for a fixed window. A newer Show replaces the
// text and restarts the window.
type Banner struct {
	view    View
	sched   eventloop.Scheduler
	timeout time.Duration
	log     *zap.SugaredLogger

	text       string
	visible    bool
	generation uint64
	timer      eventloop.Timer
}

func New(log *zap.SugaredLogger, view View, sched eventloop.Scheduler, timeout time.Duration) *Banner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Banner{view: view, sched: sched, timeout: timeout, log: log}
}

func (b *Banner) Show(text string) {
	b.text = text
	b.view.SetText(text)
	if !b.visible {
		b.view.Show()
		b.visible = true
	}

	if b.timer != nil {
		b.timer.Stop()
	}
	b.generation++
	gen := b.generation
	// a stopped timer may already sit in the loop queue, the generation check drops it
	b.timer = b.sched.AfterFunc(b.timeout, func() {
		if gen != b.generation {
			return
		}
		b.Hide()
	})
	b.log.Debugw("message shown", "text", text)
}

func (b *Banner) Hide() {
	b.timer = nil
	if !b.visible {
		return
	}
	b.visible = false
	b.view.Hide()
}

func (b *Banner) Text() string {
	return b.text
}

func (b *Banner) Visible() bool {
	return b.visible
}
