package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cimillas/tech-event-tracker/internal/app"
	"github.com/cimillas/tech-event-tracker/internal/domain"
)

// CatalogAdmin is the minimal interface needed for the catalog admin
// endpoints.
type CatalogAdmin interface {
	Reload(ctx context.Context) (app.CatalogStatus, error)
	Status(ctx context.Context) (app.CatalogStatus, error)
}

// HandleCatalogReload returns an HTTP handler that re-reads the dataset
// and swaps it in. The previous catalog stays active when the reload
// fails.
func HandleCatalogReload(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		status, err := svc.Reload(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrEmptyDataset):
				writeError(w, http.StatusUnprocessableEntity, codeEmptyDataset, domain.ErrEmptyDataset.Error())
			case errors.Is(err, domain.ErrCatalogSourceMissing):
				writeError(w, http.StatusServiceUnavailable, codeCatalogUnreadable, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newCatalogStatusResponse(status))
	}
}

// HandleCatalogStatus returns an HTTP handler reporting the loaded
// dataset.
func HandleCatalogStatus(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		status, err := svc.Status(r.Context())
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newCatalogStatusResponse(status))
	}
}

type catalogStatusResponse struct {
	Events      int       `json:"events"`
	SkippedRows int       `json:"skipped_rows"`
	LoadedAt    time.Time `json:"loaded_at"`
}

func newCatalogStatusResponse(s app.CatalogStatus) catalogStatusResponse {
	return catalogStatusResponse{
		Events:      s.Events,
		SkippedRows: s.SkippedRows,
		LoadedAt:    s.LoadedAt,
	}
}
