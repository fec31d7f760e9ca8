package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"scribe/internal/api"
	"scribe/internal/services"
)

type meetingBrowserStub struct {
	page api.MeetingPage
	err  error
	last api.BrowseRequest
}

func (s *meetingBrowserStub) Browse(_ context.Context, req api.BrowseRequest) (api.MeetingPage, error) {
	s.last = req
	if s.err != nil {
		return api.MeetingPage{}, s.err
	}
	return s.page, nil
}

func TestAPIServerHandleMeetings(t *testing.T) {
	browser := &meetingBrowserStub{page: api.MeetingPage{
		Meetings:    []api.MeetingView{{ID: "evt-1", Title: "Standup", EffectiveStatus: "no_bot"}},
		Total:       1,
		TotalPages:  1,
		CurrentPage: 1,
	}}
	srv := &apiServer{meetings: browser}

	req := httptest.NewRequest(http.MethodGet, "/api/meetings?status=with_bot&period=past&page=2&pageSize=10", nil)
	w := httptest.NewRecorder()
	srv.handleMeetings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var page api.MeetingPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(page.Meetings) != 1 || page.Meetings[0].ID != "evt-1" {
		t.Fatalf("meetings = %+v", page.Meetings)
	}
	if browser.last.Status != "with_bot" || browser.last.Period != "past" || browser.last.Page != 2 || browser.last.PageSize != 10 {
		t.Fatalf("request = %+v", browser.last)
	}
}

func TestAPIServerHandleMeetingsBadInput(t *testing.T) {
	srv := &apiServer{meetings: &meetingBrowserStub{}}

	req := httptest.NewRequest(http.MethodGet, "/api/meetings?page=abc", nil)
	w := httptest.NewRecorder()
	srv.handleMeetings(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	browser := &meetingBrowserStub{err: services.Wrap(services.ErrInvalidInput, "meeting", "paginate", "bad page", nil)}
	srv = &apiServer{meetings: browser}
	req = httptest.NewRequest(http.MethodGet, "/api/meetings?pageSize=-1", nil)
	w = httptest.NewRecorder()
	srv.handleMeetings(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for invalid input", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := authMiddleware("secret", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without token", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 with bad token", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with valid token", w.Code)
	}

	open := authMiddleware("", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w = httptest.NewRecorder()
	open(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without configured token", w.Code)
	}
}
