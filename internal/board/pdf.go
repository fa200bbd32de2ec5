package board

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/errors"
	"weiqi_client/internal/overlay"
)

const pdfFallbackFont = "Helvetica"

// PDF renders a board model to a single-page PDF, one point per pixel of BoardConfig.
type PDF struct {
	log      *zap.SugaredLogger
	cfg      game.BoardConfig
	model    *Model
	overlays []overlay.Overlay
}

func NewPDF(log *zap.SugaredLogger, cfg game.BoardConfig, model *Model) (*PDF, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PDF{log: log, cfg: cfg, model: model}, nil
}

func (p *PDF) AddOverlay(o overlay.Overlay) {
	p.overlays = append(p.overlays, o)
}

func (p *PDF) Layout() Layout {
	return PixelLayout(p.cfg, p.model.Size())
}

func (p *PDF) render() (*gofpdf.Fpdf, error) {
	if !p.model.Sized() {
		return nil, fmt.Errorf("render board: %w", errors.ErrBoardSizeUnset)
	}
	l := p.Layout()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: l.Width(), Ht: l.Height()},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFillColor(0xdc, 0xb3, 0x5c)
	pdf.Rect(0, 0, l.Width(), l.Height(), "F")

	size := l.Size()
	last := float64(size - 1)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(l.UnitX / 30)
	for i := 0; i < size; i++ {
		f := float64(i)
		pdf.Line(l.X(0), l.Y(f), l.X(last), l.Y(f))
		pdf.Line(l.X(f), l.Y(0), l.X(f), l.Y(last))
	}
	pdf.SetFillColor(0, 0, 0)
	for _, h := range hoshiPoints(size) {
		pdf.Circle(l.X(float64(h[0])), l.Y(float64(h[1])), l.Radius/6, "F")
	}

	for _, s := range p.model.Stones() {
		switch s.Color {
		case game.ColorBlack:
			pdf.SetFillColor(0, 0, 0)
		case game.ColorWhite:
			pdf.SetFillColor(0xff, 0xff, 0xff)
		}
		pdf.Circle(l.X(float64(s.X)), l.Y(float64(s.Y)), l.Radius*0.95, "FD")
	}

	cv := &pdfCanvas{pdf: pdf}
	for _, o := range p.overlays {
		o.DrawGrid(cv, l)
	}
	pdf.SetAlpha(1, "Normal")

	return pdf, pdf.Error()
}

// Export writes the current picture to path.
func (p *PDF) Export(path string) error {
	pdf, err := p.render()
	if err != nil {
		return err
	}
	if err = pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	p.log.Infof("board exported to %s", path)
	return nil
}

type pdfCanvas struct {
	pdf   *gofpdf.Fpdf
	style overlay.TextStyle
}

func (c *pdfCanvas) SetTextStyle(s overlay.TextStyle) {
	c.style = s
	font := s.FontName
	if !isCoreFont(font) {
		font = pdfFallbackFont
	}
	c.pdf.SetFont(font, "", s.FontSize)

	r, g, b, a := parseRGBA(s.Fill)
	c.pdf.SetTextColor(r, g, b)
	c.pdf.SetAlpha(a, "Normal")
}

func (c *pdfCanvas) FillText(text string, x, y float64) {
	if c.style.Align == overlay.AlignCenter {
		x -= c.pdf.GetStringWidth(text) / 2
	}
	if c.style.Middle {
		// Text draws on the baseline, move it down to the glyph middle.
		y += c.style.FontSize * 0.35
	}
	c.pdf.Text(x, y, text)
}

func isCoreFont(name string) bool {
	switch strings.ToLower(name) {
	case "courier", "helvetica", "arial", "times", "symbol", "zapfdingbats":
		return true
	}
	return false
}

// parseRGBA understands "rgba(r,g,b,a)" and "rgb(r,g,b)"; anything else is opaque black.
func parseRGBA(s string) (r, g, b int, a float64) {
	s = strings.ReplaceAll(s, " ", "")
	if n, _ := fmt.Sscanf(s, "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); n == 4 {
		return r, g, b, a
	}
	if n, _ := fmt.Sscanf(s, "rgb(%d,%d,%d)", &r, &g, &b); n == 3 {
		return r, g, b, 1
	}
	return 0, 0, 0, 1
}
