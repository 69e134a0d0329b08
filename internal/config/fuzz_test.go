package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// FuzzConfigParse tests YAML config parsing with arbitrary input.
// It ensures that malformed YAML doesn't cause panics.
func FuzzConfigParse(f *testing.F) {
	f.Add(`coffee:
  columns:
    formula: formula
    name: name
`)
	f.Add(`coffee:
  sort:
    reverse: true
    cycle_policy: lenient
  workers:
    concurrent_request_limit: 4
`)
	f.Add(`coffee:
  log:
    level: debug
    format: json
`)

	// Edge cases
	f.Add(``)
	f.Add(`coffee:`)
	f.Add(`coffee:
  columns:
    formula: ` + strings.Repeat("f", 10000) + `
`)
	f.Add(`# Just a comment`)
	f.Add(`---
coffee:
  sort:
    reverse: false
`)

	// Malformed YAML
	f.Add(`{invalid json-like}`)
	f.Add(`coffee:
    columns: bad indent
  sort: wrong
`)
	f.Add("\x00\x00\x00")
	f.Add(`coffee: [1, 2, 3]`)
	f.Add(`coffee:
  workers:
    concurrent_request_limit: lots
`)
	f.Add("\uFEFF" + `coffee:
  sort:
    cycle_policy: strict
`)

	f.Fuzz(func(t *testing.T, data string) {
		config := DefaultConfig()
		if err := yaml.Unmarshal([]byte(data), config); err != nil {
			return
		}

		// Exercise config methods without panicking
		_ = config.Validate()
		_ = config.SorterOptions(nil)
		_ = config.Logging()
	})
}

// FuzzConfigRoundTrip tests that valid configs survive serialization round trip.
func FuzzConfigRoundTrip(f *testing.F) {
	f.Add("formula", "name", "strict", 4)
	f.Add("name_formula", "item", "lenient", 1)
	f.Add("", "", "", 0)
	f.Add("with spaces", "ünïcode", "STRICT", -3)

	f.Fuzz(func(t *testing.T, formula, name, policy string, limit int) {
		config := DefaultConfig()
		config.Coffee.Columns.Formula = formula
		config.Coffee.Columns.Name = name
		config.Coffee.Sort.CyclePolicy = policy
		config.Coffee.Workers.ConcurrentRequestLimit = limit

		data, err := yaml.Marshal(config)
		if err != nil {
			return
		}

		config2 := DefaultConfig()
		if err := yaml.Unmarshal(data, config2); err != nil {
			t.Fatalf("Failed to parse serialized config: %v", err)
		}

		if config2.Coffee.Columns.Formula != formula {
			t.Errorf("Formula: got %q, want %q", config2.Coffee.Columns.Formula, formula)
		}
		if config2.Coffee.Columns.Name != name {
			t.Errorf("Name: got %q, want %q", config2.Coffee.Columns.Name, name)
		}
		if config2.Coffee.Workers.ConcurrentRequestLimit != limit {
			t.Errorf("Limit: got %d, want %d", config2.Coffee.Workers.ConcurrentRequestLimit, limit)
		}
	})
}
