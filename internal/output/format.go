package output

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// DefaultWidth is the width of headers and progress bars.
const DefaultWidth = 60

func (p *Printer) render(style lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return style.Render(text)
}

// Header prints a centered header line padded with "=".
func (p *Printer) Header(text string) {
	p.Println(p.render(lipgloss.NewStyle().Foreground(ColorCrema).Bold(true), rule(text, "=", DefaultWidth)))
}

// SubHeader prints a centered header line padded with "-".
func (p *Printer) SubHeader(text string) {
	p.Println(p.render(lipgloss.NewStyle().Foreground(ColorMuted), rule(text, "-", DefaultWidth)))
}

// Section prints a section title.
func (p *Printer) Section(title string) {
	p.Println(p.render(lipgloss.NewStyle().Foreground(ColorCrema).Bold(true), title))
}

func rule(text, fill string, width int) string {
	padding := (width - utf8.RuneCountInString(text) - 2) / 2
	if padding < 0 {
		padding = 0
	}
	line := strings.Repeat(fill, padding) + " " + text + " " + strings.Repeat(fill, padding)
	for utf8.RuneCountInString(line) < width {
		line += fill
	}
	return line
}

// Checkmark returns a check mark or a cross.
func (p *Printer) Checkmark(ok bool) string {
	if ok {
		return p.render(lipgloss.NewStyle().Foreground(ColorGreen), "✓")
	}
	return p.render(lipgloss.NewStyle().Foreground(ColorRed), "✗")
}

// ProgressBar renders done out of total as a bar of the given width.
func (p *Printer) ProgressBar(done, total, width int) string {
	percent := 100.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100
	}
	filled := int(percent / 100.0 * float64(width))
	filled = max(0, min(filled, width))

	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
	return fmt.Sprintf("%s %d/%d", p.render(percentStyle(percent), bar), done, total)
}

// Percent formats a percentage.
func (p *Printer) Percent(percent float64) string {
	return p.render(percentStyle(percent), fmt.Sprintf("%.1f%%", percent))
}

func percentStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 80:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case percent >= 50:
		return lipgloss.NewStyle().Foreground(ColorAmber)
	default:
		return lipgloss.NewStyle().Foreground(ColorRed)
	}
}

// Truncate shortens text to maxWidth runes, ending it with "..." when cut.
func Truncate(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return string(runes[:max(maxWidth, 0)])
	}
	return string(runes[:maxWidth-3]) + "..."
}
