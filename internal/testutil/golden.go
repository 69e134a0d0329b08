package testutil

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffee-platform/coffee-go/internal/table"
)

var updateGolden = flag.Bool("update", false, "rewrite golden files from the current output")

// GoldenPath returns the golden file of name, relative to the package under test.
func GoldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// Golden compares actual with the golden file of name. Line endings are
// normalized so files checked out with CRLF still match. With -update the
// golden file is rewritten instead.
func Golden(t *testing.T, name string, actual []byte) {
	t.Helper()

	path := GoldenPath(name)
	if *updateGolden {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, actual, 0644))
		t.Logf("updated %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s is missing; run go test -update to create it", path)
	}
	require.NoError(t, err)

	assert.Equal(t, normalizeNewlines(string(expected)), normalizeNewlines(string(actual)),
		"output differs from %s (go test -update rewrites it)", path)
}

// GoldenString is Golden for strings.
func GoldenString(t *testing.T, name string, actual string) {
	t.Helper()
	Golden(t, name, []byte(actual))
}

// GoldenTable compares the CSV rendering of tbl with the golden file of name.
func GoldenTable(t *testing.T, name string, tbl *table.Table) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	Golden(t, name, buf.Bytes())
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// StripANSI removes terminal color sequences from printer output.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
