package db

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestAttachAdminRoutes_AllEndpoints tests that all admin routes are registered
func TestAttachAdminRoutes_AllEndpoints(t *testing.T) {
	db := newTestDB(t)

	mux := http.NewServeMux()
	db.AttachAdminRoutes(mux)

	// Endpoints may return 403 due to debug access checks, but never 404.
	endpoints := []string{
		"/debug/db-stats",
		"/debug/backup",
		"/debug/tailsql/",
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, endpoint, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code == http.StatusNotFound {
				t.Errorf("Endpoint %s should be registered, got 404", endpoint)
			}
		})
	}
}

func TestTableStats(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.SaveSweepResult(testSweepResult()); err != nil {
		t.Fatalf("Failed to save sweep: %v", err)
	}

	stats, err := db.TableStats()
	if err != nil {
		t.Fatalf("TableStats failed: %v", err)
	}

	if stats["sweep_runs"] != 1 {
		t.Errorf("sweep_runs = %v, want 1", stats["sweep_runs"])
	}
	if stats["sweep_results"] != 3 {
		t.Errorf("sweep_results = %v, want 3", stats["sweep_results"])
	}

	// The stats map must serialize cleanly for the debug endpoint.
	if _, err := json.Marshal(stats); err != nil {
		t.Errorf("stats not JSON serializable: %v", err)
	}
}
