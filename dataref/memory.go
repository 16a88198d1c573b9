package dataref

import (
	"sync"
)

type valueKind uint8

const (
	kindFloat valueKind = iota + 1
	kindDouble
	kindInt
	kindFloatArray
)

type value struct {
	kind valueKind
	f    float32
	d    float64
	i    int32
	arr  []float32
}

// Write records one WriteFloat or WriteInt call made against a Memory host.
type Write struct {
	Path  string
	IsInt bool
	Float float32
	Int   int32
}

// Memory is an in-process API implementation backed by a map of canned
// values. It records every write and log line. The standalone host command
// runs on it, and tests use it as a deterministic fake simulator.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	values   map[string]value
	handles  []string // handle-1 -> path
	byPath   map[string]Handle
	writes   []Write
	messages []string
	resolves int
}

// NewMemory returns an empty in-memory host.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]value),
		byPath: make(map[string]Handle),
	}
}

// SetFloat stores a float dataref.
func (m *Memory) SetFloat(path string, v float32) {
	m.set(path, value{kind: kindFloat, f: v})
}

// SetDouble stores a double dataref.
func (m *Memory) SetDouble(path string, v float64) {
	m.set(path, value{kind: kindDouble, d: v})
}

// SetInt stores an int dataref.
func (m *Memory) SetInt(path string, v int32) {
	m.set(path, value{kind: kindInt, i: v})
}

// SetFloatArray stores a float array dataref.
func (m *Memory) SetFloatArray(path string, v []float32) {
	m.set(path, value{kind: kindFloatArray, arr: append([]float32(nil), v...)})
}

// Remove deletes a dataref so later lookups fail. Handles already issued
// read as zero afterwards.
func (m *Memory) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, path)
}

func (m *Memory) set(path string, v value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[path] = v
}

// Resolve implements API. A path resolves only if a value is stored for it.
// Handles are stable: resolving the same path twice yields the same handle.
func (m *Memory) Resolve(path string) (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resolves++
	if _, ok := m.values[path]; !ok {
		return 0, false
	}
	if h, ok := m.byPath[path]; ok {
		return h, true
	}
	m.handles = append(m.handles, path)
	h := Handle(len(m.handles))
	m.byPath[path] = h
	return h, true
}

// lookup returns the value behind h. Callers hold m.mu.
func (m *Memory) lookup(h Handle) (string, value, bool) {
	if h == 0 || int(h) > len(m.handles) {
		return "", value{}, false
	}
	path := m.handles[h-1]
	v, ok := m.values[path]
	return path, v, ok
}

// ReadFloat implements API.
func (m *Memory) ReadFloat(h Handle) float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, v, _ := m.lookup(h)
	switch v.kind {
	case kindFloat:
		return v.f
	case kindDouble:
		return float32(v.d)
	case kindInt:
		return float32(v.i)
	}
	return 0
}

// ReadDouble implements API.
func (m *Memory) ReadDouble(h Handle) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, v, _ := m.lookup(h)
	switch v.kind {
	case kindDouble:
		return v.d
	case kindFloat:
		return float64(v.f)
	case kindInt:
		return float64(v.i)
	}
	return 0
}

// ReadInt implements API.
func (m *Memory) ReadInt(h Handle) int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, v, _ := m.lookup(h)
	switch v.kind {
	case kindInt:
		return v.i
	case kindFloat:
		return int32(v.f)
	}
	return 0
}

// ReadFloatArray implements API. Slots past the end of the stored array are
// zeroed.
func (m *Memory) ReadFloatArray(h Handle, offset int, out []float32) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, v, _ := m.lookup(h)
	if v.kind != kindFloatArray || offset < 0 {
		return 0
	}
	n := 0
	for i := range out {
		if offset+i < len(v.arr) {
			out[i] = v.arr[offset+i]
			n++
		} else {
			out[i] = 0
		}
	}
	return n
}

// WriteFloat implements API.
func (m *Memory) WriteFloat(h Handle, v float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path, _, ok := m.lookup(h)
	if !ok {
		return
	}
	m.values[path] = value{kind: kindFloat, f: v}
	m.writes = append(m.writes, Write{Path: path, Float: v})
}

// WriteInt implements API.
func (m *Memory) WriteInt(h Handle, v int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path, _, ok := m.lookup(h)
	if !ok {
		return
	}
	m.values[path] = value{kind: kindInt, i: v}
	m.writes = append(m.writes, Write{Path: path, IsInt: true, Int: v})
}

// Log implements API.
func (m *Memory) Log(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
}

// Writes returns a copy of every recorded write, oldest first.
func (m *Memory) Writes() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Write(nil), m.writes...)
}

// Messages returns a copy of every logged line, oldest first.
func (m *Memory) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// ResolveCalls returns how many times Resolve has been called.
func (m *Memory) ResolveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolves
}
