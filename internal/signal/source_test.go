package signal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func jsonServer(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSuccess(t *testing.T) {
	srv := jsonServer(t, 200, "application/json",
		`{"edge_score": 0.42, "regime": "STRESSED", "fragility_ratio": 0.3,
		  "momentum": -0.05, "timestamp": "2026-08-23T12:00:00Z",
		  "domain_scores": {"Markets": {"score": 0.5}, "Climate": {"score": 0.7}}}`)

	snap, err := NewSource(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.EdgeScore != 0.42 {
		t.Errorf("edge = %v, want 0.42", snap.EdgeScore)
	}
	if snap.Regime != RegimeStressed {
		t.Errorf("regime = %v, want STRESSED", snap.Regime)
	}
	if snap.Fragility != 0.3 {
		t.Errorf("fragility = %v, want 0.3", snap.Fragility)
	}
	if snap.Momentum != -0.05 {
		t.Errorf("momentum = %v, want -0.05", snap.Momentum)
	}
	if !snap.HasDomain[Markets] || snap.Domains[Markets] != 0.5 {
		t.Errorf("Markets = %v (has=%v), want 0.5", snap.Domains[Markets], snap.HasDomain[Markets])
	}
	if !snap.HasDomain[Climate] || snap.Domains[Climate] != 0.7 {
		t.Errorf("Climate = %v (has=%v), want 0.7", snap.Domains[Climate], snap.HasDomain[Climate])
	}
	// Domains the payload never mentioned stay unmarked.
	if snap.HasDomain[Information] || snap.HasDomain[SupplyChain] {
		t.Error("absent domains should not be marked present")
	}
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantKind    error
	}{
		{"server error", 500, "application/json", `{}`, ErrNetwork},
		{"not found", 404, "application/json", `{}`, ErrNetwork},
		{"html content type", 200, "text/html", `<html></html>`, ErrFormat},
		{"malformed body", 200, "application/json", `{not json`, ErrFormat},
		{"missing edge_score", 200, "application/json", `{"regime": "CALM"}`, ErrSchema},
		{"non-numeric edge_score", 200, "application/json", `{"edge_score": "high", "regime": "CALM"}`, ErrSchema},
		{"missing regime", 200, "application/json", `{"edge_score": 0.5}`, ErrSchema},
		{"empty regime", 200, "application/json", `{"edge_score": 0.5, "regime": ""}`, ErrSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jsonServer(t, tt.status, tt.contentType, tt.body)
			_, err := NewSource(srv.URL).Fetch(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("error %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	src := NewSource("http://127.0.0.1:1/nope")
	src.SetTimeout(500 * time.Millisecond)
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error %v, want ErrNetwork", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	t.Cleanup(srv.Close)

	src := NewSource(srv.URL)
	src.SetTimeout(50 * time.Millisecond)
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("timeout should reduce to ErrNetwork, got %v", err)
	}
}

func TestFetchDropsBadDomains(t *testing.T) {
	srv := jsonServer(t, 200, "application/json",
		`{"edge_score": 0.2, "regime": "CALM",
		  "domain_scores": {
		    "Markets": {"score": "high"},
		    "Atlantis": {"score": 0.9},
		    "Supply Chain": {"score": 0.4}}}`)

	snap, err := NewSource(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.HasDomain[Markets] {
		t.Error("non-numeric Markets score should be dropped")
	}
	if !snap.HasDomain[SupplyChain] || snap.Domains[SupplyChain] != 0.4 {
		t.Errorf("Supply Chain = %v, want 0.4", snap.Domains[SupplyChain])
	}
}

func TestFetchUnknownRegimeFallsBackToBands(t *testing.T) {
	srv := jsonServer(t, 200, "application/json",
		`{"edge_score": 0.8, "regime": "APOCALYPTIC"}`)

	snap, err := NewSource(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Regime != RegimeCritical {
		t.Errorf("regime = %v, want CRITICAL from score band", snap.Regime)
	}
}

func TestParseRegime(t *testing.T) {
	tests := []struct {
		in    string
		want  Regime
		known bool
	}{
		{"CALM", RegimeCalm, true},
		{"ELEVATED", RegimeElevated, true},
		{"STRESSED", RegimeStressed, true},
		{"CRITICAL", RegimeCritical, true},
		{"calm", RegimeCalm, false},
		{"", RegimeCalm, false},
	}
	for _, tt := range tests {
		got, known := ParseRegime(tt.in)
		if got != tt.want || known != tt.known {
			t.Errorf("ParseRegime(%q) = %v,%v want %v,%v", tt.in, got, known, tt.want, tt.known)
		}
	}
}
