package catalog

import (
	"context"
	"strings"
	"sync"

	"asesoria/internal/domain"
)

type serviceReader interface {
	GetAll(ctx context.Context) ([]domain.Service, error)
}

// Store holds the loaded catalog plus the current category filter and search
// query. Filtering never reorders: results keep original catalog order.
type Store struct {
	mu       sync.RWMutex
	repo     serviceReader
	services []domain.Service
	category string
	query    string
	loaded   bool
	loadErr  error
}

func NewStore(repo serviceReader) *Store {
	return &Store{repo: repo}
}

// Load populates the catalog. On failure the error flag is set and the
// catalog stays empty; there is no retry policy.
func (s *Store) Load(ctx context.Context) error {
	services, err := s.repo.GetAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.services = nil
		s.loaded = false
		s.loadErr = err
		return err
	}

	s.services = services
	s.loaded = true
	s.loadErr = nil
	return nil
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// FilterByCategory sets the category filter; empty clears it.
func (s *Store) FilterByCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
}

// SetSearchQuery sets the text search; empty clears it.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

// FilteredServices applies the held filters to the catalog.
func (s *Store) FilteredServices() []domain.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.services, s.category, s.query)
}

// Filter applies ad-hoc filters without touching the held ones. The HTTP
// layer uses it so concurrent requests don't fight over store state.
func (s *Store) Filter(category, query string) []domain.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.services, category, query)
}

func (s *Store) GetByID(id int64) (*domain.Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.services {
		if s.services[i].ID == id {
			svc := s.services[i]
			return &svc, true
		}
	}
	return nil, false
}

func filter(services []domain.Service, category, query string) []domain.Service {
	out := make([]domain.Service, 0, len(services))
	q := strings.ToLower(strings.TrimSpace(query))

	for _, svc := range services {
		if category != "" && svc.Category != category {
			continue
		}
		if q != "" && !matchesQuery(svc, q) {
			continue
		}
		out = append(out, svc)
	}
	return out
}

// matchesQuery does a case-insensitive substring match on name, description
// and tags.
func matchesQuery(svc domain.Service, q string) bool {
	if strings.Contains(strings.ToLower(svc.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(svc.Description), q) {
		return true
	}
	for _, tag := range svc.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
