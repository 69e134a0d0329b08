package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no_ansi", "plain text", "plain text"},
		{"simple_color", "\033[32mgreen\033[0m", "green"},
		{"multiple_colors", "\033[31mred\033[0m and \033[34mblue\033[0m", "red and blue"},
		{"nested_codes", "\033[1;31;40mbold red on black\033[0m", "bold red on black"},
		{"empty", "", ""},
		{"only_escape", "\033[0m", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}

func TestNewTestTable(t *testing.T) {
	tbl := NewTestTable(t,
		NewTestRow("A"),
		NewTestRow("B", WithFormula("[A] + 1"), WithField("unit", "kg")),
	)

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"name", "formula", "is_calculation", "unit"}, tbl.Columns())
	assert.Equal(t, "true", tbl.Row(1).Get("is_calculation"))
	assert.Equal(t, "", tbl.Row(0).Get("unit"))
}

func TestParseTable(t *testing.T) {
	tbl := ParseTable(t, ExampleCSV)
	assert.Equal(t, []string{"A", "B", "C"}, tbl.Column("name"))
}

func TestGoldenTable(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("testdata", 0755))
	require.NoError(t, os.WriteFile(GoldenPath("example"), []byte("name,formula,is_calculation\r\nA,,false\r\n"), 0644))

	GoldenTable(t, "example", ParseTable(t, "name,formula,is_calculation\nA,,false\n"))
	assert.Equal(t, filepath.Join("testdata", "example.golden"), GoldenPath("example"))
}
