package app

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/cimillas/tech-event-tracker/internal/domain"
)

// BookmarkRepository persists the full id set. Save replaces the stored set
// wholesale, so a crash between calls leaves storage consistent with the
// last completed mutation.
type BookmarkRepository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
}

// EventGetter is the slice of CatalogService the bookmark service needs.
type EventGetter interface {
	Get(ctx context.Context, id string) (domain.Event, error)
}

// BookmarkService keeps the bookmarked event ids in memory and writes the
// set through the repository after every mutation. Add and Remove are
// idempotent: repeating a call is a no-op, not an error.
type BookmarkService struct {
	repo   BookmarkRepository
	events EventGetter
	logger *log.Logger

	mu  sync.Mutex
	ids map[string]struct{}
}

func NewBookmarkService(repo BookmarkRepository, events EventGetter, logger *log.Logger) *BookmarkService {
	if logger == nil {
		logger = log.Default()
	}
	return &BookmarkService{
		repo:   repo,
		events: events,
		logger: logger,
		ids:    make(map[string]struct{}),
	}
}

// Load reads the persisted id set. Unreadable or corrupt storage is never
// fatal: the service recovers to an empty set and logs a warning, as a
// fresh run would.
func (s *BookmarkService) Load(ctx context.Context) {
	ids, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Printf("WARN: bookmark storage unreadable, starting with empty set: %v", err)
		ids = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Add bookmarks an event. It reports whether the set changed; adding an
// already bookmarked id is a no-op. The id must resolve in the catalog.
func (s *BookmarkService) Add(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, domain.ErrInvalidID
	}
	if _, err := s.events.Get(ctx, id); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false, nil
	}
	s.ids[id] = struct{}{}
	if err := s.repo.Save(ctx, s.snapshotLocked()); err != nil {
		delete(s.ids, id)
		return false, err
	}
	return true, nil
}

// Remove drops a bookmark. Removing an absent id is a no-op.
func (s *BookmarkService) Remove(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, domain.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return false, nil
	}
	delete(s.ids, id)
	if err := s.repo.Save(ctx, s.snapshotLocked()); err != nil {
		s.ids[id] = struct{}{}
		return false, err
	}
	return true, nil
}

// List returns the bookmarked ids in sorted order.
func (s *BookmarkService) List(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Events resolves the bookmarked ids against the catalog. Ids that no
// longer resolve (the dataset was replaced) are kept in storage but left
// out of the result.
func (s *BookmarkService) Events(ctx context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0)
	for _, id := range s.List(ctx) {
		event, err := s.events.Get(ctx, id)
		if err == domain.ErrEventNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, nil
}

func (s *BookmarkService) snapshotLocked() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
