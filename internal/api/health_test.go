package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tyrehub/catalog/internal/db/dbtest"
)

func TestHealthCheckHandler(t *testing.T) {
	_, sqlDB := dbtest.Open(t)
	handler := HealthCheckHandler(sqlDB, time.Now().Add(-time.Minute))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	sqlDB.Close()
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 after close, got %d", rr.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	LivenessHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/hc", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
}
