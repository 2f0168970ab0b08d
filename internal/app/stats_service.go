package app

import (
	"context"
	"sort"

	"github.com/cimillas/tech-event-tracker/internal/domain"
)

// StatsCatalog is the slice of CatalogService the stats service needs.
type StatsCatalog interface {
	Events(ctx context.Context) ([]domain.Event, error)
}

type FreePaidCounts struct {
	Free int
	Paid int
}

type CityCount struct {
	City  string
	Count int
}

const defaultTopCitiesLimit = 10

// StatsService computes the two dataset aggregates the front end charts:
// free vs paid counts and the cities with the most events.
type StatsService struct {
	catalog StatsCatalog
}

func NewStatsService(catalog StatsCatalog) *StatsService {
	return &StatsService{catalog: catalog}
}

func (s *StatsService) FreePaid(ctx context.Context) (FreePaidCounts, error) {
	events, err := s.catalog.Events(ctx)
	if err != nil {
		return FreePaidCounts{}, err
	}
	var counts FreePaidCounts
	for _, e := range events {
		if e.Price == 0 {
			counts.Free++
		} else {
			counts.Paid++
		}
	}
	return counts, nil
}

// TopCities returns the cities with the most events, descending by count,
// ties broken by city name. A non-positive limit means the default of 10.
func (s *StatsService) TopCities(ctx context.Context, limit int) ([]CityCount, error) {
	if limit <= 0 {
		limit = defaultTopCitiesLimit
	}
	events, err := s.catalog.Events(ctx)
	if err != nil {
		return nil, err
	}

	byCity := make(map[string]int)
	for _, e := range events {
		byCity[e.City]++
	}

	out := make([]CityCount, 0, len(byCity))
	for city, count := range byCity {
		out = append(out, CityCount{City: city, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].City < out[j].City
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
