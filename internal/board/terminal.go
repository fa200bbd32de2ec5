package board

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/overlay"
)

// Region is the part of the screen the board owns.
type Region struct {
	X, Y int
}

var (
	boardStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(0xdc, 0xb3, 0x5c)).Foreground(tcell.ColorBlack)
	lastStyle  = boardStyle.Foreground(tcell.ColorRed)
	labelStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const (
	blackStone = '●'
	whiteStone = '○'
)

// Terminal draws the board on a tcell screen and turns mouse presses into grid clicks.
type Terminal struct {
	screen    tcell.Screen
	log       *zap.SugaredLogger
	cfg       game.BoardConfig
	container Region
	model     *Model
	overlays  []overlay.Overlay
	handlers  []func(x, y int)
	buttons   tcell.ButtonMask
}

var _ Board = (*Terminal)(nil)

func NewTerminal(log *zap.SugaredLogger, screen tcell.Screen, container Region, cfg game.BoardConfig) (*Terminal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Terminal{
		screen:    screen,
		log:       log,
		cfg:       cfg,
		container: container,
		model:     NewModel(),
	}, nil
}

func (t *Terminal) SetSize(n int) error {
	if err := t.model.SetSize(n); err != nil {
		return err
	}
	t.log.Infof("board size set to %d", n)
	return nil
}

func (t *Terminal) OnClick(fn func(x, y int)) {
	t.handlers = append(t.handlers, fn)
}

func (t *Terminal) PlaceStone(s game.Stone) error {
	if err := t.model.Place(s); err != nil {
		return fmt.Errorf("place stone %s at (%d,%d): %w", s.Color, s.X, s.Y, err)
	}
	return nil
}

func (t *Terminal) RestoreFullState(st game.BoardState) error {
	return t.model.Restore(st)
}

func (t *Terminal) AddOverlay(o overlay.Overlay) {
	t.overlays = append(t.overlays, o)
}

func (t *Terminal) Model() *Model {
	return t.model
}

func (t *Terminal) Layout() Layout {
	return CellLayout(t.container.X, t.container.Y, t.cfg, t.model.Size())
}

// Extent is the number of cells the board occupies including the label margins.
func (t *Terminal) Extent() (width, height int) {
	l := t.Layout()
	return int(math.Ceil(l.Width())), int(math.Ceil(l.Height()))
}

// HandleMouse fires the click handlers on a fresh primary-button press over the grid.
// Presses outside the grid are dropped.
func (t *Terminal) HandleMouse(ev *tcell.EventMouse) bool {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0
	t.buttons = buttons
	if !pressed || !t.model.Sized() {
		return false
	}

	cx, cy := ev.Position()
	x, y, ok := t.Layout().PointAt(float64(cx), float64(cy))
	if !ok {
		t.log.Debugw("click outside the grid", "col", cx, "row", cy)
		return false
	}
	for _, fn := range t.handlers {
		fn(x, y)
	}
	return true
}

// Draw paints the grid layer, the stones and then the overlays. The caller shows the screen.
func (t *Terminal) Draw() {
	if !t.model.Sized() {
		return
	}
	l := t.Layout()
	size := l.Size()
	last, hasLast := t.model.LastPlaced()

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cx, cy := int(l.X(float64(x))), int(l.Y(float64(y)))

			r, style := gridRune(x, y, size), boardStyle
			switch t.model.At(x, y) {
			case game.ColorBlack:
				r = blackStone
			case game.ColorWhite:
				r = whiteStone
			}
			if hasLast && last.X == x && last.Y == y {
				style = lastStyle
			}
			t.screen.SetContent(cx, cy, r, nil, style)

			connector := '─'
			if x == size-1 {
				connector = ' '
			}
			t.screen.SetContent(cx+1, cy, connector, nil, boardStyle)
		}
	}

	cv := &cellCanvas{screen: t.screen, style: labelStyle}
	for _, o := range t.overlays {
		o.DrawGrid(cv, l)
	}
}

func gridRune(x, y, size int) rune {
	if isHoshi(x, y, size) {
		return '╋'
	}
	top, bottom := y == 0, y == size-1
	left, right := x == 0, x == size-1
	switch {
	case top && left:
		return '┌'
	case top && right:
		return '┐'
	case bottom && left:
		return '└'
	case bottom && right:
		return '┘'
	case top:
		return '┬'
	case bottom:
		return '┴'
	case left:
		return '├'
	case right:
		return '┤'
	}
	return '┼'
}

// cellCanvas draws overlay text into terminal cells. A coordinate falls into the
// cell that contains it.
type cellCanvas struct {
	screen tcell.Screen
	style  tcell.Style
	text   overlay.TextStyle
}

func (c *cellCanvas) SetTextStyle(s overlay.TextStyle) {
	c.text = s
}

func (c *cellCanvas) FillText(text string, x, y float64) {
	runes := []rune(text)
	start := x
	if c.text.Align == overlay.AlignCenter {
		start = x - float64(len(runes))/2 + 0.5
	}
	col, row := int(math.Floor(start)), int(math.Floor(y))
	if c.text.Middle {
		row = int(math.Floor(y + 0.5))
	}
	for i, r := range runes {
		c.screen.SetContent(col+i, row, r, nil, c.style)
	}
}
