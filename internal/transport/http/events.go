package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cimillas/tech-event-tracker/internal/domain"
)

// EventCatalog is the minimal interface needed for the event listing
// endpoint.
type EventCatalog interface {
	Filter(ctx context.Context, crit domain.Criteria) ([]domain.Event, error)
}

// HandleListEvents returns an HTTP handler for filtered event listing.
func HandleListEvents(svc EventCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		crit, ok := parseCriteria(w, r)
		if !ok {
			return
		}

		events, err := svc.Filter(r.Context(), crit)
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		resp := make([]eventResponse, 0, len(events))
		for _, event := range events {
			resp = append(resp, newEventResponse(event))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type eventResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Type     string  `json:"type"`
	City     string  `json:"city"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"`
	Venue    string  `json:"venue"`
	Link     string  `json:"link,omitempty"`
}

func newEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:       e.ID,
		Name:     e.Name,
		Category: e.Category,
		Type:     string(e.Type),
		City:     e.City,
		Price:    e.Price,
		Date:     e.Date.Format(time.DateOnly),
		Venue:    e.Venue,
		Link:     e.Link,
	}
}

// parseCriteria maps the filter query parameters onto domain.Criteria,
// writing a 400 response and returning false on invalid input.
func parseCriteria(w http.ResponseWriter, r *http.Request) (domain.Criteria, bool) {
	q := r.URL.Query()

	typeFilter, err := domain.ParseTypeFilter(q.Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidEventType, "type must be free, paid or any")
		return domain.Criteria{}, false
	}

	crit := domain.Criteria{
		Text:     q.Get("q"),
		Type:     typeFilter,
		City:     q.Get("city"),
		Category: q.Get("category"),
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidPrice, "min_price must be a number")
			return domain.Criteria{}, false
		}
		crit.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidPrice, "max_price must be a number")
			return domain.Criteria{}, false
		}
		crit.MaxPrice = &v
	}

	return crit, true
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrCatalogNotLoaded:
		writeError(w, http.StatusServiceUnavailable, codeCatalogNotLoaded, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
