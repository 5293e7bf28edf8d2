package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ledgerpro/internal/core"
	ports "ledgerpro/internal/sheets"
)

var (
	_ ports.RecordMirror = (*Store)(nil)
	_ ports.RecordReader = (*Store)(nil)
)

// Store is an in-process record mirror, used when no spreadsheet is
// configured and in tests.
type Store struct {
	mu    sync.Mutex
	rows  map[int64]core.Record
	order []int64
}

func New() *Store {
	return &Store{rows: make(map[int64]core.Record)}
}

// AppendRecord stores the record and returns a synthetic row reference.
func (s *Store) AppendRecord(_ context.Context, r core.Record) (string, error) {
	if r.ID <= 0 {
		return "", fmt.Errorf("mirror record: missing id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.rows[r.ID] = r
	return ref(r.ID), nil
}

func (s *Store) RemoveRecord(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// ListMirrored returns the mirrored records ordered by id.
func (s *Store) ListMirrored(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Record, 0, len(s.rows))
	for _, id := range s.order {
		out = append(out, s.rows[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func ref(id int64) string {
	return fmt.Sprintf("mem:%d", id)
}
