// Package routes holds the static route table mapping HTTP endpoints to
// stored procedures. The table is loaded once at startup; changes require
// a redeploy.
package routes

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"spgate.dev/internal/obs"
)

// Entry maps one (url, method) pair to a stored procedure.
type Entry struct {
	URL       string `yaml:"url"`
	Method    string `yaml:"method"`
	Procedure string `yaml:"procedure"`
	// OutputParams declares output parameters by name with a type hint
	// (int, bigint, nvarchar, bit, date, datetime, decimal, float).
	OutputParams map[string]string `yaml:"output_params,omitempty"`
}

// Table is the immutable route table. Lookups are pure; no state is held
// beyond the loaded entries, so a Table is safe for concurrent use.
type Table struct {
	entries []Entry
}

type routesFile struct {
	Routes []Entry `yaml:"routes"`
}

var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// Load reads and validates the route table. Duplicate (url, method) pairs
// are a config defect, not an error: the first entry wins and a warning is
// logged. Unknown output type hints also warn; they bind as nvarchar at
// runtime.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routes: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Table from raw YAML.
func Parse(data []byte) (*Table, error) {
	var f routesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("routes: parse: %w", err)
	}

	seen := make(map[string]bool, len(f.Routes))
	for i := range f.Routes {
		e := &f.Routes[i]
		e.Method = strings.ToUpper(strings.TrimSpace(e.Method))
		e.URL = strings.TrimSpace(e.URL)
		if e.URL == "" || e.Procedure == "" {
			return nil, fmt.Errorf("routes: entry %d: url and procedure are required", i)
		}
		if !supportedMethods[e.Method] {
			return nil, fmt.Errorf("routes: entry %d (%s): unsupported method %q", i, e.URL, e.Method)
		}
		key := e.Method + " " + e.URL
		if seen[key] {
			obs.Logger().WithField("route", key).Warn("duplicate route entry, first match wins")
		}
		seen[key] = true
		for name, hint := range e.OutputParams {
			if !knownTypeHint(hint) {
				obs.Logger().WithFields(map[string]any{
					"route": key,
					"param": name,
					"hint":  hint,
				}).Warn("unknown output param type hint, will bind as nvarchar")
			}
		}
	}
	return &Table{entries: f.Routes}, nil
}

// Resolve looks up the entry for a (path, method) pair. It returns false
// when no entry matches.
func (t *Table) Resolve(path, method string) (*Entry, bool) {
	for i := range t.entries {
		if t.entries[i].URL == path && t.entries[i].Method == method {
			return &t.entries[i], true
		}
	}
	return nil, false
}

// Len reports the number of loaded entries.
func (t *Table) Len() int { return len(t.entries) }

func knownTypeHint(hint string) bool {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "int", "bigint", "varchar", "nvarchar", "bit", "date", "datetime", "decimal", "float":
		return true
	}
	return false
}
