package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cimillas/tech-event-tracker/internal/app"
)

// StatsProvider is the minimal interface needed for the stats endpoint.
type StatsProvider interface {
	FreePaid(ctx context.Context) (app.FreePaidCounts, error)
	TopCities(ctx context.Context, limit int) ([]app.CityCount, error)
}

// HandleStats returns an HTTP handler for the dataset aggregates backing
// the front end charts.
func HandleStats(svc StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("cities"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "cities must be a positive integer")
				return
			}
			limit = n
		}

		freePaid, err := svc.FreePaid(r.Context())
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		cities, err := svc.TopCities(r.Context(), limit)
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		resp := statsResponse{
			FreePaid:  freePaidResponse{Free: freePaid.Free, Paid: freePaid.Paid},
			TopCities: make([]cityCountResponse, 0, len(cities)),
		}
		for _, c := range cities {
			resp.TopCities = append(resp.TopCities, cityCountResponse{City: c.City, Count: c.Count})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type statsResponse struct {
	FreePaid  freePaidResponse    `json:"free_paid"`
	TopCities []cityCountResponse `json:"top_cities"`
}

type freePaidResponse struct {
	Free int `json:"free"`
	Paid int `json:"paid"`
}

type cityCountResponse struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}
