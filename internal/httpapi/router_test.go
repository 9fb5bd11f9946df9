package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthEndpoints(t *testing.T) {
	r := NewRouter(func(context.Context) error { return nil })

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestTrigger_Success(t *testing.T) {
	called := 0
	r := NewRouter(func(context.Context) error {
		called++
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("POST /run = %d, want 200", w.Code)
	}
	if called != 1 {
		t.Errorf("trigger called %d times, want 1", called)
	}
}

func TestTrigger_FailureReported(t *testing.T) {
	r := NewRouter(func(context.Context) error {
		return errors.New("snapshot unavailable")
	})

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("POST /run = %d, want 500", w.Code)
	}
}
