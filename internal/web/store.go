package web

import (
	"sync"

	"sbpconv/internal/model"
	"sbpconv/internal/plot"
)

// result is a finished conversion waiting to be downloaded.
type result struct {
	conv   model.Conversion
	figure *plot.Figure // nil when the program had no coordinates
}

// store keeps the most recent conversions in memory so the page can fetch
// the download and preview after the upload returns. Oldest entries are
// evicted first.
type store struct {
	mu    sync.Mutex
	limit int
	order []string
	items map[string]*result
}

func newStore(limit int) *store {
	return &store{limit: max(limit, 1), items: make(map[string]*result)}
}

func (s *store) put(id string, r *result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = r
	for len(s.order) > s.limit {
		delete(s.items, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *store) get(id string) (*result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	return r, ok
}

func (s *store) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
