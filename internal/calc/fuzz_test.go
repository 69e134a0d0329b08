package calc

import (
	"regexp"
	"strings"
	"testing"
)

var namePattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

// FuzzExtractReferences checks that every extracted reference is a valid name
// that actually appears bracketed in the formula.
func FuzzExtractReferences(f *testing.F) {
	f.Add("[A] + 1")
	f.Add("[B] * [A]")
	f.Add("[[X]]")
	f.Add("[a] [A-B] []")
	f.Add(strings.Repeat("[X_1]", 500))
	f.Add("\x00[\x00]")

	f.Fuzz(func(t *testing.T, formula string) {
		for _, ref := range ExtractReferences(formula) {
			if !namePattern.MatchString(ref) {
				t.Errorf("invalid reference %q extracted from %q", ref, formula)
			}
			if !strings.Contains(formula, "["+ref+"]") {
				t.Errorf("reference %q not bracketed in %q", ref, formula)
			}
		}
	})
}
