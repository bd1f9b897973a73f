package sheets

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and the "memory" driver
// in dev mode. It copies rows on the way in and out so callers cannot alias
// its internal state.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string][][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][][]string)}
}

func (s *MemoryStore) ReadTable(_ context.Context, table string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRows(s.tables[table]), nil
}

func (s *MemoryStore) AppendRows(_ context.Context, table string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], copyRows(rows)...)
	return nil
}

func (s *MemoryStore) OverwriteTable(_ context.Context, table string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = copyRows(rows)
	return nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
