package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"thermocycle"
	"thermocycle/internal/service"
)

func TestListProfilesHandler_ListAndValidation(t *testing.T) {
	auth := &mockAuth{parseID: 99}
	now := time.Now().UTC().Truncate(time.Second)
	summaries := []thermocycle.RunSummary{
		{ID: "r2", Name: "board B", CreatedAt: now.Add(1 * time.Second), Cycles: 5, PointCount: 22, DurationH: 12.5},
		{ID: "r1", Name: "board A", CreatedAt: now, Cycles: 3, PointCount: 14, DurationH: 8.25},
	}
	prof := &mockProfiles{listResp: summaries}
	s := &service.Service{
		Authorization: auth,
		Profiles:      prof,
	}
	r := newTestRouter(s)

	// Invalid 'from' → 400
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/?from=notatime", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// Invalid 'limit' → 400, service not called
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles/?limit=-2", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'limit', got %d", w.Code)
	}
	if prof.listCalls != 0 {
		t.Fatalf("expected no List calls yet, got %d", prof.listCalls)
	}

	// from > to → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles/?from=2025-06-02&to=2025-06-01", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for from>to, got %d", w.Code)
	}

	// Valid range and limit → 200 with count and runs
	w = httptest.NewRecorder()
	toDay := now.AddDate(0, 0, 7)
	q := "/api/v1/profiles/?from=" + now.Format(time.RFC3339) + "&to=" + toDay.Format(layoutDate) + "&limit=10"
	req = httptest.NewRequest(http.MethodGet, q, nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count int                      `json:"count"`
		Runs  []thermocycle.RunSummary `json:"runs"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Runs) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.Runs[0].ID != "r2" {
		t.Fatalf("expected newest run first, got %+v", out.Runs)
	}

	if !prof.lastFilter.From.Equal(now) {
		t.Fatalf("expected from %v, got %v", now, prof.lastFilter.From)
	}
	// Date-only 'to' becomes end-of-day inclusive
	wantTo := time.Date(toDay.Year(), toDay.Month(), toDay.Day(), 23, 59, 59, 999999999, time.UTC)
	if !prof.lastFilter.To.Equal(wantTo) {
		t.Fatalf("expected to %v, got %v", wantTo, prof.lastFilter.To)
	}
	if prof.lastFilter.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", prof.lastFilter.Limit)
	}
}
