package memory

import (
	"context"
	"fmt"
	"sync"

	ports "subtrack/internal/sheets"
)

// Store is an in-memory SubscriptionWriter used in tests and when the
// sheets export runs without credentials.
type Store struct {
	mu   sync.Mutex
	rows []ports.Row
}

func New() *Store {
	return &Store{}
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, row ports.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of the appended rows.
func (s *Store) Rows() []ports.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.Row, len(s.rows))
	copy(out, s.rows)
	return out
}
