package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)
	require.NotNil(t, p)
	assert.False(t, p.isTTY)
	assert.False(t, p.Colored())

	// Color cannot be forced on a buffer.
	p.SetColor(true)
	assert.False(t, p.Colored())
}

func TestPrinter_Print(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Print("hello %s", "world")
	assert.Equal(t, "hello world", buf.String())
}

func TestPrinter_Levels(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Info("ordered batch", "rows", 3)
	p.Warn("circular references")
	p.Error("failed")
	p.Debug("hidden")

	got := buf.String()
	assert.Contains(t, got, "INFO")
	assert.Contains(t, got, "rows=3")
	assert.Contains(t, got, "WARN")
	// charmbracelet/log uses "ERRO" abbreviation
	assert.Contains(t, got, "ERRO")
	assert.NotContains(t, got, "hidden")

	buf.Reset()
	p.SetDebug(true)
	p.Debug("shown")
	assert.Contains(t, buf.String(), "DEBU")
}

func TestHeaders(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Header("Dependency Graph")
	p.SubHeader("Roots")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "===================== Dependency Graph =====================", lines[0])
	assert.Len(t, lines[1], DefaultWidth)
	assert.True(t, strings.HasPrefix(lines[1], "---"))
}

func TestProgressBar(t *testing.T) {
	p := NewWithWriter(&bytes.Buffer{})

	assert.Equal(t, "[█████░░░░░] 1/2", p.ProgressBar(1, 2, 10))
	assert.Equal(t, "[██████████] 0/0", p.ProgressBar(0, 0, 10))
	assert.Equal(t, "50.0%", p.Percent(50))
}

func TestCheckmark(t *testing.T) {
	p := NewWithWriter(&bytes.Buffer{})
	assert.Equal(t, "✓", p.Checkmark(true))
	assert.Equal(t, "✗", p.Checkmark(false))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"[FEED_RATE] * [RUN_HOURS]", 12, "[FEED_RAT..."},
		{"abcdef", 3, "abc"},
		{"äöüäöü", 5, "äö..."},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.text, tt.width))
	}
}
