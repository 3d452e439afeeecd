package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveGeneration("APNIC", "ipv4", ResultOK, 10, 4)
	m.ObserveGeneration("APNIC", "ipv4", ResultBadRequest, 0, 0)
	m.ObserveFetch("APNIC", nil, 150*time.Millisecond)
	m.ObserveFetch("RIPE", errors.New("timeout"), time.Second)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		`rirroutes_generations_total{family="ipv4",registry="APNIC",result="ok"} 1`,
		`rirroutes_generations_total{family="ipv4",registry="APNIC",result="bad_request"} 1`,
		`rirroutes_generated_blocks_count{family="ipv4"} 1`,
		`rirroutes_fetch_duration_seconds_count{registry="RIPE",result="upstream_error"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}
