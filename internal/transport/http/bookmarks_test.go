package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/cimillas/tech-event-tracker/internal/domain"
)

type stubBookmarkService struct {
	known map[string]domain.Event
	ids   map[string]struct{}
	err   error
}

func newStubBookmarkService(events ...domain.Event) *stubBookmarkService {
	known := make(map[string]domain.Event, len(events))
	for _, e := range events {
		known[e.ID] = e
	}
	return &stubBookmarkService{known: known, ids: make(map[string]struct{})}
}

func (s *stubBookmarkService) Add(_ context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.known[id]; !ok {
		return false, domain.ErrEventNotFound
	}
	if _, ok := s.ids[id]; ok {
		return false, nil
	}
	s.ids[id] = struct{}{}
	return true, nil
}

func (s *stubBookmarkService) Remove(_ context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.ids[id]; !ok {
		return false, nil
	}
	delete(s.ids, id)
	return true, nil
}

func (s *stubBookmarkService) List(_ context.Context) []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *stubBookmarkService) Events(_ context.Context) ([]domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Event, 0, len(s.ids))
	for _, id := range s.List(context.Background()) {
		if e, ok := s.known[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestHandleBookmarks_List(t *testing.T) {
	t.Parallel()

	events := testEvents()
	svc := newStubBookmarkService(events...)
	svc.ids[events[0].ID] = struct{}{}

	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	rec := httptest.NewRecorder()
	HandleBookmarks(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp bookmarkListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.IDs) != 1 || resp.IDs[0] != events[0].ID {
		t.Fatalf("unexpected ids: %v", resp.IDs)
	}
	if len(resp.Events) != 1 || resp.Events[0].Name != events[0].Name {
		t.Fatalf("unexpected events: %+v", resp.Events)
	}
}

func TestHandleBookmarks_ListEmpty(t *testing.T) {
	t.Parallel()

	svc := newStubBookmarkService(testEvents()...)

	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	rec := httptest.NewRecorder()
	HandleBookmarks(svc).ServeHTTP(rec, req)

	body := strings.TrimSpace(rec.Body.String())
	if !strings.Contains(body, `"ids":[]`) {
		t.Fatalf("expected empty ids array in body, got %s", body)
	}
	if !strings.Contains(body, `"events":[]`) {
		t.Fatalf("expected empty events array in body, got %s", body)
	}
}

func TestHandleBookmarks_Add(t *testing.T) {
	t.Parallel()

	events := testEvents()

	tests := []struct {
		name       string
		body       string
		prepare    func(*stubBookmarkService)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "new bookmark",
			body:       `{"event_id":"a1b2c3d4e5f6"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name: "repeat add is a no-op",
			body: `{"event_id":"a1b2c3d4e5f6"}`,
			prepare: func(s *stubBookmarkService) {
				s.ids["a1b2c3d4e5f6"] = struct{}{}
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown event",
			body:       `{"event_id":"deadbeef0000"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   codeEventNotFound,
		},
		{
			name:       "missing event id",
			body:       `{"event_id":""}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeEventIDRequired,
		},
		{
			name:       "invalid json",
			body:       `{"event_id":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeInvalidRequestBody,
		},
		{
			name:       "unknown field rejected",
			body:       `{"event_id":"a1b2c3d4e5f6","extra":true}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeInvalidRequestBody,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newStubBookmarkService(events...)
			if tc.prepare != nil {
				tc.prepare(svc)
			}

			req := httptest.NewRequest(http.MethodPost, "/bookmarks", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			HandleBookmarks(svc).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tc.wantStatus, rec.Code, rec.Body.String())
			}

			if tc.wantCode != "" {
				var resp errorResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decode error response: %v", err)
				}
				if resp.Code != tc.wantCode {
					t.Fatalf("expected code %s, got %s", tc.wantCode, resp.Code)
				}
				return
			}

			var resp bookmarkResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if !resp.Bookmarked {
				t.Fatal("expected bookmarked true")
			}
			if resp.EventID != "a1b2c3d4e5f6" {
				t.Fatalf("unexpected event_id: %s", resp.EventID)
			}
		})
	}
}

func TestHandleBookmarks_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPut, "/bookmarks", nil)
	rec := httptest.NewRecorder()
	HandleBookmarks(newStubBookmarkService()).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestHandleBookmarkByID_Delete(t *testing.T) {
	t.Parallel()

	events := testEvents()
	svc := newStubBookmarkService(events...)
	svc.ids[events[0].ID] = struct{}{}

	req := httptest.NewRequest(http.MethodDelete, "/bookmarks/"+events[0].ID, nil)
	rec := httptest.NewRecorder()
	HandleBookmarkByID(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if _, ok := svc.ids[events[0].ID]; ok {
		t.Fatal("expected bookmark removed")
	}
}

func TestHandleBookmarkByID_DeleteAbsentIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := newStubBookmarkService(testEvents()...)

	req := httptest.NewRequest(http.MethodDelete, "/bookmarks/deadbeef0000", nil)
	rec := httptest.NewRecorder()
	HandleBookmarkByID(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
}

func TestHandleBookmarkByID_BadPath(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodDelete, "/bookmarks/a/b", nil)
	rec := httptest.NewRecorder()
	HandleBookmarkByID(newStubBookmarkService()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleBookmarkByID_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/bookmarks/a1b2c3d4e5f6", nil)
	rec := httptest.NewRecorder()
	HandleBookmarkByID(newStubBookmarkService()).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}
