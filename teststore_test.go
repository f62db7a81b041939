package bptree

import "fmt"

// mapBackend is a minimal in-memory BlockingBackend used only by this
// package's own tests, so the core engine's tests don't have to reach into
// the backend/* sub-packages (which themselves import this package, and
// would create an import cycle from an internal test file).
type mapBackend struct {
	data map[string][]byte
}

func newMapBackend() *mapBackend {
	return &mapBackend{data: map[string][]byte{}}
}

func (m *mapBackend) Get(key []byte) ([]byte, bool, error) {
	v, ok := m.data[string(key)]
	return v, ok, nil
}

func (m *mapBackend) Write(batch WriteBatch) error {
	for k, v := range batch.Sets {
		m.data[k] = v
	}
	for k := range batch.Deletes {
		delete(m.data, k)
	}
	return nil
}

func (m *mapBackend) dump() string {
	return fmt.Sprintf("%d keys", len(m.data))
}
