package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles renders trajectory reports for the terminal.
type Styles struct {
	Theme  Theme
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Muted  lipgloss.Style
	Panel  lipgloss.Style
	Header lipgloss.Style
	High   lipgloss.Style
	Mid    lipgloss.Style
	Low    lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Label: lipgloss.NewStyle().
			Foreground(t.Muted),
		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text),
		Muted: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		High: lipgloss.NewStyle().Foreground(t.Success),
		Mid:  lipgloss.NewStyle().Foreground(t.Warning),
		Low:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// Field is one labelled line of a panel.
type Field struct {
	Label string
	Value string
}

// Fields renders label/value pairs with the labels padded to equal width.
func (s Styles) Fields(fields []Field) string {
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	lines := make([]string, len(fields))
	for i, f := range fields {
		label := fmt.Sprintf("%-*s", width, f.Label)
		lines[i] = s.Label.Render(label) + "  " + s.Value.Render(f.Value)
	}
	return strings.Join(lines, "\n")
}

// Section renders a titled panel around content.
func (s Styles) Section(title, content string) string {
	return s.Panel.Render(s.Header.Render(title) + "\n" + content)
}

// Gradient colors each rune of text along a blend from start to end.
func (s Styles) Gradient(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	c0, err0 := colorful.Hex(string(start))
	c1, err1 := colorful.Hex(string(end))
	if err0 != nil || err1 != nil {
		return s.Title.Render(text)
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		col := lipgloss.Color(c0.BlendLab(c1, t).Clamped().Hex())
		b.WriteString(lipgloss.NewStyle().Foreground(col).Render(string(r)))
	}
	return b.String()
}

// ProgressBar renders done/total as a bar of the given width.
func (s Styles) ProgressBar(done, total, width int) string {
	if width <= 0 {
		return ""
	}
	frac := 1.0
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	filled := int(frac * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case frac > 0.8:
		return s.High.Render(bar)
	case frac > 0.4:
		return s.Mid.Render(bar)
	}
	return s.Low.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a one-line chart, sampled down to width.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(sparkChars)-1))
		b.WriteRune(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}
	return b.String()
}
