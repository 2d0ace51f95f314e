// Package signal fetches and validates risk snapshots from a remote endpoint.
package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single fetch, including connect and body read.
const DefaultTimeout = 8 * time.Second

// Source reads risk snapshots from an HTTP endpoint. Fetch is a pure read:
// it owns no state beyond the client and never mutates anything on failure.
type Source struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

// NewSource creates a source for the given endpoint URL.
func NewSource(endpoint string) *Source {
	return &Source{
		endpoint: endpoint,
		client:   &http.Client{},
		timeout:  DefaultTimeout,
	}
}

// SetTimeout overrides the per-fetch timeout.
func (s *Source) SetTimeout(d time.Duration) { s.timeout = d }

// Endpoint returns the configured URL.
func (s *Source) Endpoint() string { return s.endpoint }

// Fetch performs one GET and validates the response shape. Any violation is
// returned as a FetchError; Fetch never panics on a hostile payload.
func (s *Source) Fetch(ctx context.Context) (*RiskSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fetchErr(ErrNetwork, "building request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// Timeouts and aborts land here and are treated like any other
		// transport failure.
		return nil, fetchErr(ErrNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fetchErr(ErrNetwork, fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, fetchErr(ErrFormat, fmt.Sprintf("content-type %q", resp.Header.Get("Content-Type")), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fetchErr(ErrNetwork, "reading body", err)
	}

	return parseSnapshot(body)
}

// domainPayload is the per-domain wire shape: {"score": 0.5}.
type domainPayload struct {
	Score *float64 `json:"score"`
}

// parseSnapshot validates the wire payload field by field so that one bad
// field is classified precisely instead of failing the whole decode.
func parseSnapshot(body []byte) (*RiskSnapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fetchErr(ErrFormat, "decoding body", err)
	}

	var edge float64
	raw, ok := fields["edge_score"]
	if !ok {
		return nil, fetchErr(ErrSchema, "missing edge_score", nil)
	}
	if err := json.Unmarshal(raw, &edge); err != nil {
		return nil, fetchErr(ErrSchema, "edge_score not numeric", err)
	}

	var regimeLabel string
	raw, ok = fields["regime"]
	if !ok {
		return nil, fetchErr(ErrSchema, "missing regime", nil)
	}
	if err := json.Unmarshal(raw, &regimeLabel); err != nil || regimeLabel == "" {
		return nil, fetchErr(ErrSchema, "regime empty or not a string", err)
	}

	snap := &RiskSnapshot{EdgeScore: clamp01(edge)}

	regime, known := ParseRegime(regimeLabel)
	if !known {
		regime = RegimeFromScore(snap.EdgeScore)
	}
	snap.Regime = regime

	// Optional scalars: absence or a bad type leaves the zero value.
	if raw, ok := fields["fragility_ratio"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil {
			snap.Fragility = clamp01(v)
		}
	}
	if raw, ok := fields["momentum"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil {
			snap.Momentum = v
		}
	}
	if raw, ok := fields["timestamp"]; ok {
		var v string
		if err := json.Unmarshal(raw, &v); err == nil {
			snap.Timestamp = v
		}
	}

	if raw, ok := fields["domain_scores"]; ok {
		var domains map[string]json.RawMessage
		if err := json.Unmarshal(raw, &domains); err == nil {
			for key, rawDomain := range domains {
				d, known := DomainByKey(key)
				if !known {
					continue // unknown domains dropped
				}
				var dp domainPayload
				if err := json.Unmarshal(rawDomain, &dp); err != nil || dp.Score == nil {
					continue // non-numeric scores dropped, prior value retained by caller
				}
				snap.Domains[d] = clamp01(*dp.Score)
				snap.HasDomain[d] = true
			}
		}
	}

	return snap, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
