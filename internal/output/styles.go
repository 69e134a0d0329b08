package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Roast color theme.
var (
	ColorCrema = lipgloss.Color("#d4a373") // Primary accent
	ColorWhite = lipgloss.Color("#fafaf9")
	ColorMuted = lipgloss.Color("#78716c")
	ColorGreen = lipgloss.Color("#10b981")
	ColorRed   = lipgloss.Color("#f43f5e")
	ColorAmber = lipgloss.Color("#eab308")
	ColorGray  = lipgloss.Color("#a8a29e")
)

// roastStyles returns charmbracelet/log styles with the roast theme.
func roastStyles() *log.Styles {
	styles := log.DefaultStyles()

	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(ColorCrema).
		Bold(true)

	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(ColorAmber).
		Bold(true)

	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(ColorRed).
		Bold(true)

	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(ColorMuted)

	styles.Timestamp = lipgloss.NewStyle().
		Foreground(ColorMuted)

	// Keys in crema for structured logging
	styles.Key = lipgloss.NewStyle().
		Foreground(ColorCrema)

	styles.Value = lipgloss.NewStyle().
		Foreground(ColorGray)

	return styles
}
