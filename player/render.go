package player

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/thiscantbeserious/agr/vt"
)

// renderer paints a vt grid through termenv, so colors degrade with
// the viewer's terminal profile instead of being passed through raw.
type renderer struct {
	out *termenv.Output
}

func newRenderer(out *termenv.Output) *renderer {
	return &renderer{out: out}
}

// draw repaints the whole grid plus the status line underneath.
// Full repaint per frame keeps the renderer trivially correct; the
// grids involved are one screen, not scrollback.
func (r *renderer) draw(t *vt.Terminal, status string) {
	r.out.MoveCursor(1, 1)

	for row := 0; row < t.Rows(); row++ {
		r.out.WriteString(r.renderLine(t.Line(row)))
		r.out.ClearLineRight()
		r.out.WriteString("\r\n")
	}

	r.out.WriteString(r.out.String(status).Reverse().String())
	r.out.ClearLineRight()
}

// renderLine groups runs of identically formatted cells into one
// styled write each.
func (r *renderer) renderLine(cells []vt.Cell) string {
	var sb strings.Builder
	var run strings.Builder
	var cur vt.Format

	flush := func() {
		if run.Len() == 0 {
			return
		}
		sb.WriteString(r.styled(run.String(), cur))
		run.Reset()
	}

	for _, c := range cells {
		if c.Spacer() {
			continue
		}
		if c.Format() != cur {
			flush()
			cur = c.Format()
		}
		run.WriteRune(c.Rune())
	}
	flush()

	return sb.String()
}

func (r *renderer) styled(text string, f vt.Format) string {
	s := r.out.String(text)

	if c := toTermenv(r.out, f.Fg()); c != nil {
		s = s.Foreground(c)
	}
	if c := toTermenv(r.out, f.Bg()); c != nil {
		s = s.Background(c)
	}

	if f.Has(vt.AttrBold) {
		s = s.Bold()
	}
	if f.Has(vt.AttrFaint) {
		s = s.Faint()
	}
	if f.Has(vt.AttrItalic) {
		s = s.Italic()
	}
	if f.Has(vt.AttrUnderline) {
		s = s.Underline()
	}
	if f.Has(vt.AttrBlink) {
		s = s.Blink()
	}
	if f.Has(vt.AttrReversed) {
		s = s.Reverse()
	}
	if f.Has(vt.AttrStrikeout) {
		s = s.CrossOut()
	}

	return s.String()
}

func toTermenv(out *termenv.Output, c vt.Color) termenv.Color {
	switch c.Mode {
	case vt.ColorBasic:
		return out.Profile.Convert(termenv.ANSIColor(c.Idx))
	case vt.Color256:
		return out.Profile.Convert(termenv.ANSI256Color(c.Idx))
	case vt.ColorRGB:
		return out.Profile.Convert(termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
	}
	return nil
}
