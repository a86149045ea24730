// Package formstate provides an in-memory form-state layer for trigger
// condition editors.
package formstate

import "sort"

// Memory stores field values and touched flags by path.
// Not safe for concurrent use.
type Memory struct {
	values    map[string]string
	touched   map[string]bool
	listeners []func(path, value string)
}

// NewMemory returns a form seeded with initial values (may be nil).
func NewMemory(initial map[string]string) *Memory {
	m := &Memory{
		values:  make(map[string]string, len(initial)),
		touched: make(map[string]bool),
	}
	for k, v := range initial {
		m.values[k] = v
	}
	return m
}

// Get returns the value at path, or "" if unset.
func (m *Memory) Get(path string) string {
	return m.values[path]
}

// Set stores value at path and notifies subscribers when it changed.
func (m *Memory) Set(path, value string) {
	if old, ok := m.values[path]; ok && old == value {
		return
	}
	m.values[path] = value
	for _, fn := range m.listeners {
		fn(path, value)
	}
}

// Touch marks path as interacted with.
func (m *Memory) Touch(path string) {
	m.touched[path] = true
}

// Touched reports whether path has been touched.
func (m *Memory) Touched(path string) bool {
	return m.touched[path]
}

// Paths returns every path holding a value, sorted.
func (m *Memory) Paths() []string {
	paths := make([]string, 0, len(m.values))
	for p := range m.values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Values returns a copy of all stored values.
func (m *Memory) Values() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Subscribe registers fn to be called after every value change.
func (m *Memory) Subscribe(fn func(path, value string)) {
	m.listeners = append(m.listeners, fn)
}
