package handlers

import (
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

func TestCanonicalWeekday(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Monday", "Monday", true},
		{"monday", "Monday", true},
		{" SATURDAY ", "Saturday", true},
		{"Mon", "", false},
		{"", "", false},
		{"Someday", "", false},
	}
	for _, tc := range cases {
		got, ok := canonicalWeekday(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("canonicalWeekday(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDoctorScheduleRequiresDoctorID(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPut, "http://example.com/api/v1/doctors/schedule", strings.NewReader(`{"weekday":"Monday"}`))
	rw := httptest.NewRecorder()
	h.DoctorSchedule(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestDoctorScheduleRejectsBadWeekday(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPut, "http://example.com/api/v1/doctors/schedule?doctor_id=doc-1", strings.NewReader(`{"weekday":"Mon"}`))
	rw := httptest.NewRecorder()
	h.DoctorSchedule(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestCreateDoctorRequiresFullName(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/doctors", strings.NewReader(`{"department":"Cardiology"}`))
	rw := httptest.NewRecorder()
	h.Doctors(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestDoctorsRejectsUnknownMethod(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodDelete, "http://example.com/api/v1/doctors", nil)
	rw := httptest.NewRecorder()
	h.Doctors(rw, req)
	if rw.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rw.Code)
	}
}
