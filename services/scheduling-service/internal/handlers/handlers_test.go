package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testHandler() *Handler {
	return New(nil, nil, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSlotsMissingParamsReturnsEmptyList(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/slots", nil)
	rw := httptest.NewRecorder()
	h.Slots(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	var resp struct {
		Slots []string `json:"slots"`
	}
	if err := json.NewDecoder(rw.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Slots == nil || len(resp.Slots) != 0 {
		t.Fatalf("expected empty slot list, got %v", resp.Slots)
	}
}

func TestSlotsRejectsNonGet(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/slots", nil)
	rw := httptest.NewRecorder()
	h.Slots(rw, req)
	if rw.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rw.Code)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	h := testHandler()

	cases := []string{
		`{}`,
		`{"patient_id":"p1"}`,
		`{"patient_id":"p1","doctor":"doc-1","date":"2026-02-02"}`,
		`{"patient_id":"p1","doctor":"doc-1","time":"09:00"}`,
		`{"patient_id":"p1","doctor":"doc-1","date":"2026-02-02","time":"  AM "}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/appointments", strings.NewReader(body))
		rw := httptest.NewRecorder()
		h.Create(rw, req)
		if rw.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rw.Code)
		}
	}
}

func TestCreateRejectsInvalidJSON(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/appointments", strings.NewReader("{"))
	rw := httptest.NewRecorder()
	h.Create(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestCancelRequiresAppointmentID(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/appointments/cancel", strings.NewReader(`{"create_waitlist_entry":true}`))
	rw := httptest.NewRecorder()
	h.Cancel(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestCompleteRequiresAppointmentID(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/appointments/complete", strings.NewReader(`{}`))
	rw := httptest.NewRecorder()
	h.Complete(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestUpdateRequiresSomethingToChange(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPatch, "http://example.com/api/v1/appointments", strings.NewReader(`{"appointment_id":"appt-1"}`))
	rw := httptest.NewRecorder()
	h.Update(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}
