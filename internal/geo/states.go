// Package geo resolves user-typed city/state pairs into canonical county
// identifiers (county name, state FIPS, county FIPS) used to key every
// downstream fetch.
package geo

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed states.yaml
var statesYAML []byte

type stateEntry struct {
	Name string `yaml:"name"`
	FIPS string `yaml:"fips"`
}

// StateTable maps 2-letter state codes to the directory URL name and the
// 2-digit FIPS prefix. Immutable after load; injected into the resolver and
// the crime collector rather than consulted as package state.
type StateTable struct {
	entries map[string]stateEntry
}

// LoadStateTable parses the embedded state data.
func LoadStateTable() (*StateTable, error) {
	entries := make(map[string]stateEntry)
	if err := yaml.Unmarshal(statesYAML, &entries); err != nil {
		return nil, eris.Wrap(err, "geo: parse state table")
	}
	return &StateTable{entries: entries}, nil
}

// URLName returns the hyphenated directory name for a state code
// (e.g. "NH" -> "New-Hampshire").
func (t *StateTable) URLName(code string) (string, bool) {
	e, ok := t.entries[strings.ToUpper(strings.TrimSpace(code))]
	return e.Name, ok
}

// FIPS returns the 2-digit FIPS prefix for a state code.
func (t *StateTable) FIPS(code string) (string, bool) {
	e, ok := t.entries[strings.ToUpper(strings.TrimSpace(code))]
	return e.FIPS, ok
}

// Known reports whether the code is one of the 50 states or DC.
func (t *StateTable) Known(code string) bool {
	_, ok := t.entries[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
