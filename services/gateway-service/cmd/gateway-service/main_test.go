package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegisterProxyMatchesPrefixAndSubpaths(t *testing.T) {
	mux := http.NewServeMux()
	registerProxy(mux, "/api/v1/appointments", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for _, path := range []string{"/api/v1/appointments", "/api/v1/appointments/cancel"} {
		req := httptest.NewRequest(http.MethodGet, "http://example.com"+path, nil)
		rw := httptest.NewRecorder()
		mux.ServeHTTP(rw, req)
		if rw.Code != http.StatusTeapot {
			t.Fatalf("path %s: expected proxy handler, got %d", path, rw.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/unknown", nil)
	rw := httptest.NewRecorder()
	mux.ServeHTTP(rw, req)
	if rw.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unrouted path, got %d", rw.Code)
	}
}

func TestParseList(t *testing.T) {
	got := parseList(" a, ,b,,c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
