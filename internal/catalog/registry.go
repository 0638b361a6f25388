package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/youmna-rabie/fermi-events/internal/types"
	"gopkg.in/yaml.v3"
)

// Registry discovers extra catalog events by scanning for YAML files.
type Registry struct {
	events []types.Event
}

// catalogFile is the layout of a catalog YAML file.
type catalogFile struct {
	Events []types.Event `yaml:"events"`
}

// Scan walks each directory in dirs looking for *.yaml and *.yml files and
// collects the events they define. Unreadable paths and malformed files are
// skipped. Events without an id or with an unknown category are dropped.
func (r *Registry) Scan(dirs []string) error {
	r.events = nil

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // skip inaccessible paths
			}
			if d.IsDir() || !isYAML(d.Name()) {
				return nil
			}

			events, err := parseCatalogFile(path)
			if err != nil {
				return nil // skip malformed files
			}

			r.events = append(r.events, events...)
			return nil
		})
		if err != nil {
			return fmt.Errorf("scanning %s: %w", dir, err)
		}
	}

	return nil
}

// Events returns all discovered events.
func (r *Registry) Events() []types.Event {
	return r.events
}

// Filter returns only the events whose category appears in the allowlist.
// An empty allowlist returns all events (no filtering).
func (r *Registry) Filter(categories []string) []types.Event {
	if len(categories) == 0 {
		return r.events
	}

	allowed := make(map[types.Category]struct{}, len(categories))
	for _, c := range categories {
		allowed[types.Category(c)] = struct{}{}
	}

	var filtered []types.Event
	for _, e := range r.events {
		if _, ok := allowed[e.Category]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Merge returns base followed by every extra event whose id is not already
// in base. Earlier entries win on id clashes.
func Merge(base []types.Event, extra []types.Event) []types.Event {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]types.Event, 0, len(base)+len(extra))
	for _, e := range append(Clone(base), Clone(extra)...) {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// parseCatalogFile reads a catalog file and returns its valid events.
func parseCatalogFile(path string) ([]types.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: parsing catalog: %w", path, err)
	}

	var events []types.Event
	for _, e := range f.Events {
		if e.ID == "" || !e.Category.Valid() {
			continue
		}
		events = append(events, e)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%s: no valid events", path)
	}
	return events, nil
}
