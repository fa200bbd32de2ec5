// Package terminal hosts the board on a tcell screen.
package terminal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"weiqi_client/internal/banner"
	"weiqi_client/internal/board"
	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/eventloop"
	"weiqi_client/internal/overlay"
	"weiqi_client/internal/usecase/gamesync"
)

const (
	queueSize = 64
	helpText  = "click: move  p: pass  s: PDF snapshot  q: quit"
)

var (
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	infoStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

type Config struct {
	GameKey        string
	BoardSize      int
	Color          game.Color
	Board          game.BoardConfig
	ConfirmDelay   time.Duration
	MessageTimeout time.Duration
	ExportDir      string
}

// App owns the screen. Input, engine frames and timers all end up on its loop.
type App struct {
	log    *zap.SugaredLogger
	cfg    Config
	screen tcell.Screen
	loop   *eventloop.Loop
	board  *board.Terminal
	pdf    *board.PDF
	status *statusLine
	banner *banner.Banner
	ctrl   *gamesync.Controller
	cancel context.CancelFunc
}

func NewApp(log *zap.SugaredLogger, screen tcell.Screen, engine gamesync.Engine, cfg Config) (*App, error) {
	loop := eventloop.New(log, queueSize)

	term, err := board.NewTerminal(log, screen, board.Region{X: 0, Y: 1}, cfg.Board)
	if err != nil {
		return nil, err
	}
	// without a size the board takes the one of the first position the engine sends
	if cfg.BoardSize > 0 {
		if err = term.SetSize(cfg.BoardSize); err != nil {
			return nil, err
		}
	}
	term.AddOverlay(overlay.NewCoordinates(""))

	pdf, err := board.NewPDF(log, cfg.Board, term.Model())
	if err != nil {
		return nil, err
	}
	pdf.AddOverlay(overlay.NewCoordinates("Helvetica"))

	status := &statusLine{}
	messages := banner.New(log, status, loop, cfg.MessageTimeout)

	a := &App{
		log:    log,
		cfg:    cfg,
		screen: screen,
		loop:   loop,
		board:  term,
		pdf:    pdf,
		status: status,
		banner: messages,
		cancel: func() {},
	}
	a.ctrl = gamesync.NewController(log, term, engine, loop, messages, gamesync.Config{
		Color:        cfg.Color,
		ConfirmDelay: cfg.ConfirmDelay,
	})
	loop.SetAfterEach(a.draw)
	return a, nil
}

// Controller receives the engine's frames; call it only through Post.
func (a *App) Controller() *gamesync.Controller {
	return a.ctrl
}

func (a *App) Post(fn func()) bool {
	return a.loop.Post(fn)
}

// Run blocks until ctx ends or the player quits. The caller finalizes the screen.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.cancel = cancel

	go a.pollEvents(ctx)
	// first frame
	a.loop.Post(func() {})

	err := a.loop.Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (a *App) pollEvents(ctx context.Context) {
	for {
		ev := a.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return
		}
		a.loop.Post(func() { a.handleEvent(ev) })
	}
}

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			a.cancel()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				a.cancel()
			case 'p', 'P':
				a.ctrl.Pass()
			case 's', 'S':
				a.snapshot()
			}
		}
	case *tcell.EventMouse:
		a.board.HandleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

func (a *App) snapshot() {
	if err := os.MkdirAll(a.cfg.ExportDir, 0o755); err != nil {
		a.log.Errorw("export dir", "error", err)
		a.banner.Show("Snapshot failed: " + err.Error())
		return
	}
	name := fmt.Sprintf("board-%s.pdf", time.Now().Format("20060102-150405.000"))
	path := filepath.Join(a.cfg.ExportDir, name)
	if err := a.pdf.Export(path); err != nil {
		a.log.Errorw("snapshot failed", "path", path, "error", err)
		a.banner.Show("Snapshot failed: " + err.Error())
		return
	}
	a.banner.Show("Snapshot saved: " + path)
}

func (a *App) draw() {
	a.screen.Clear()

	info := fmt.Sprintf("game %s  color %s  %s", a.cfg.GameKey, a.cfg.Color, a.ctrl.State())
	drawText(a.screen, 0, 0, info, infoStyle)

	a.board.Draw()

	_, height := a.board.Extent()
	row := 1 + height
	if a.status.visible {
		drawText(a.screen, 0, row, a.status.text, statusStyle)
	}
	drawText(a.screen, 0, row+1, helpText, infoStyle)

	a.screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// statusLine is the banner's view; draw reads it on every frame.
type statusLine struct {
	text    string
	visible bool
}

func (s *statusLine) SetText(text string) { s.text = text }

func (s *statusLine) Show() { s.visible = true }

func (s *statusLine) Hide() { s.visible = false }
