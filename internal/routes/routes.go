// Package routes holds the gateway route table loaded from the routes
// file. A route names one upstream model endpoint; the table is
// swapped atomically on reload.
package routes

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Limit caps invocations per route. RenewalPeriod is "second",
// "minute" or "hour".
type Limit struct {
	Calls         int    `yaml:"calls" json:"calls"`
	RenewalPeriod string `yaml:"renewal_period" json:"renewal_period"`
}

// ModelConfig carries upstream connection details. Never serialized
// back to clients.
type ModelConfig struct {
	BaseURL   string `yaml:"base_url" json:"-"`
	APIKeyEnv string `yaml:"api_key_env" json:"-"`
}

type Model struct {
	Provider string      `yaml:"provider" json:"provider"`
	Name     string      `yaml:"name" json:"name"`
	Config   ModelConfig `yaml:"config" json:"-"`
}

type Route struct {
	Name      string `yaml:"name" json:"name"`
	RouteType string `yaml:"route_type" json:"route_type"`
	Model     Model  `yaml:"model" json:"model"`
	Limit     *Limit `yaml:"limit" json:"-"`
}

type file struct {
	Routes []Route `yaml:"routes"`
}

// Table is the active route set.
type Table struct {
	mu     sync.RWMutex
	routes map[string]Route
}

func NewTable(rs []Route) (*Table, error) {
	t := &Table{routes: map[string]Route{}}
	for _, r := range rs {
		r = normalize(r)
		if r.Name == "" {
			continue
		}
		if _, dup := t.routes[r.Name]; dup {
			return nil, fmt.Errorf("duplicate route name %q", r.Name)
		}
		t.routes[r.Name] = r
	}
	return t, nil
}

// Load reads a routes file. If the file does not exist, returns an
// empty table and nil error.
func Load(path string) (*Table, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return NewTable(nil)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewTable(nil)
		}
		return nil, err
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return NewTable(f.Routes)
}

// List returns routes sorted by name. A non-empty filter keeps routes
// whose name contains it, case-insensitively.
func (t *Table) List(filter string) []Route {
	if t == nil {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(filter))
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Route, 0, len(t.routes))
	for name, r := range t.routes {
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t *Table) Get(name string) (Route, bool) {
	if t == nil {
		return Route{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.routes[strings.TrimSpace(name)]
	return r, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}

func normalize(r Route) Route {
	r.Name = strings.TrimSpace(r.Name)
	r.RouteType = strings.TrimSpace(r.RouteType)
	r.Model.Provider = strings.ToLower(strings.TrimSpace(r.Model.Provider))
	r.Model.Name = strings.TrimSpace(r.Model.Name)
	r.Model.Config.BaseURL = strings.TrimRight(strings.TrimSpace(r.Model.Config.BaseURL), "/")
	r.Model.Config.APIKeyEnv = strings.TrimSpace(r.Model.Config.APIKeyEnv)
	if r.Limit != nil && strings.TrimSpace(r.Limit.RenewalPeriod) == "" {
		r.Limit.RenewalPeriod = "minute"
	}
	return r
}
