package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Preset is a built-in dataset layout.
type Preset struct {
	Type   DatasetType
	Label  string // Display name: "Sentiment"
	Fields []FieldSchema
}

var (
	registry   = make(map[DatasetType]Preset)
	registryMu sync.RWMutex
)

// Register adds a preset to the registry.
// Panics if a preset for the same type is already registered or the
// preset's schema is malformed.
func Register(p Preset) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[p.Type]; exists {
		panic(fmt.Sprintf("preset already registered: %s", p.Type))
	}
	if err := Check(p.Fields); err != nil {
		panic(fmt.Sprintf("preset %s: %v", p.Type, err))
	}

	registry[p.Type] = p
}

// Get returns the preset for a dataset type.
// Returns false if not found.
func Get(t DatasetType) (Preset, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[t]
	return p, ok
}

// FieldsFor returns a copy of the preset schema for a dataset type, so
// callers can adjust it without touching the registry.
func FieldsFor(t DatasetType) ([]FieldSchema, error) {
	p, ok := Get(t)
	if !ok {
		return nil, fmt.Errorf("no preset for dataset type %q", t)
	}
	out := make([]FieldSchema, len(p.Fields))
	copy(out, p.Fields)
	return out, nil
}

// All returns all registered presets sorted by type.
func All() []Preset {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Preset, 0, len(registry))
	for _, p := range registry {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Type < result[j].Type
	})

	return result
}

// Count returns the number of registered presets.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
