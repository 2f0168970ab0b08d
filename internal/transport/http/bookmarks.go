package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cimillas/tech-event-tracker/internal/domain"
)

// BookmarkService is the minimal interface needed for the bookmark
// endpoints.
type BookmarkService interface {
	Add(ctx context.Context, id string) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) []string
	Events(ctx context.Context) ([]domain.Event, error)
}

// HandleBookmarks returns an HTTP handler for listing and adding
// bookmarks.
func HandleBookmarks(svc BookmarkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.Events(r.Context())
			if err != nil {
				writeCatalogError(w, err)
				return
			}
			resp := bookmarkListResponse{
				IDs:    svc.List(r.Context()),
				Events: make([]eventResponse, 0, len(events)),
			}
			for _, event := range events {
				resp.Events = append(resp.Events, newEventResponse(event))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req addBookmarkRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.EventID == "" {
				writeError(w, http.StatusBadRequest, codeEventIDRequired, "event_id is required")
				return
			}

			added, err := svc.Add(r.Context(), req.EventID)
			if err != nil {
				switch err {
				case domain.ErrInvalidID:
					writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				case domain.ErrEventNotFound:
					writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
				case domain.ErrCatalogNotLoaded:
					writeError(w, http.StatusServiceUnavailable, codeCatalogNotLoaded, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			status := http.StatusOK
			if added {
				status = http.StatusCreated
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(bookmarkResponse{EventID: req.EventID, Bookmarked: true})
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleBookmarkByID returns an HTTP handler for removing a bookmark.
func HandleBookmarkByID(svc BookmarkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseBookmarkPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		// Removing an absent id is a no-op, so the response is the same
		// either way.
		if _, err := svc.Remove(r.Context(), id); err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type addBookmarkRequest struct {
	EventID string `json:"event_id"`
}

type bookmarkResponse struct {
	EventID    string `json:"event_id"`
	Bookmarked bool   `json:"bookmarked"`
}

type bookmarkListResponse struct {
	IDs    []string        `json:"ids"`
	Events []eventResponse `json:"events"`
}

func parseBookmarkPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "bookmarks" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
