package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/cimillas/tech-event-tracker/internal/catalog"
	"github.com/cimillas/tech-event-tracker/internal/clock"
	"github.com/cimillas/tech-event-tracker/internal/domain"
)

// CatalogSource opens the raw dataset for loading.
type CatalogSource interface {
	Open() (io.ReadCloser, error)
}

// CatalogStatus describes the currently loaded dataset.
type CatalogStatus struct {
	Events      int
	SkippedRows int
	LoadedAt    time.Time
}

// CatalogService owns the current catalog snapshot. A reload parses the
// source into a fresh catalog and swaps it in wholesale; queries always see
// a complete dataset.
type CatalogService struct {
	source CatalogSource
	clock  clock.Clock
	logger *log.Logger

	mu       sync.RWMutex
	catalog  *catalog.Catalog
	loadedAt time.Time
	skipped  int
}

func NewCatalogService(source CatalogSource, clk clock.Clock, logger *log.Logger) *CatalogService {
	if logger == nil {
		logger = log.Default()
	}
	return &CatalogService{
		source: source,
		clock:  clk,
		logger: logger,
	}
}

// Reload parses the source and replaces the current catalog. Skipped rows
// are logged one by one; the reload fails only when the source cannot be
// read or yields no valid event at all, and the previous catalog stays
// active in that case.
func (s *CatalogService) Reload(ctx context.Context) (CatalogStatus, error) {
	rc, err := s.source.Open()
	if err != nil {
		return CatalogStatus{}, err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			s.logger.Printf("WARN: close catalog source: %v", err)
		}
	}()

	cat, err := catalog.Load(rc)
	if err != nil {
		return CatalogStatus{}, fmt.Errorf("load catalog: %w", err)
	}

	for _, rowErr := range cat.Skipped() {
		s.logger.Printf("WARN: skipping event row: %v", rowErr)
	}

	loadedAt := s.clock.Now()
	s.mu.Lock()
	s.catalog = cat
	s.loadedAt = loadedAt
	s.skipped = len(cat.Skipped())
	s.mu.Unlock()

	s.logger.Printf("catalog loaded events=%d skipped=%d", cat.Len(), len(cat.Skipped()))
	return CatalogStatus{Events: cat.Len(), SkippedRows: len(cat.Skipped()), LoadedAt: loadedAt}, nil
}

// Filter returns the events matching the criteria in dataset order.
func (s *CatalogService) Filter(ctx context.Context, crit domain.Criteria) ([]domain.Event, error) {
	cat, err := s.current()
	if err != nil {
		return nil, err
	}
	return cat.Filter(crit), nil
}

// Events returns the full dataset in load order.
func (s *CatalogService) Events(ctx context.Context) ([]domain.Event, error) {
	cat, err := s.current()
	if err != nil {
		return nil, err
	}
	return cat.Events(), nil
}

// Get looks up a single event by id.
func (s *CatalogService) Get(ctx context.Context, id string) (domain.Event, error) {
	if id == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	cat, err := s.current()
	if err != nil {
		return domain.Event{}, err
	}
	event, ok := cat.Get(id)
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

// Status reports size and load time of the current dataset.
func (s *CatalogService) Status(ctx context.Context) (CatalogStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return CatalogStatus{}, domain.ErrCatalogNotLoaded
	}
	return CatalogStatus{
		Events:      s.catalog.Len(),
		SkippedRows: s.skipped,
		LoadedAt:    s.loadedAt,
	}, nil
}

func (s *CatalogService) current() (*catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	return s.catalog, nil
}
