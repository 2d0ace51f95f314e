package nerve

import "github.com/ravlen/nervescope/internal/signal"

// Preset is one rung of the simulation ladder.
type Preset struct {
	Name string
	Snap signal.RiskSnapshot
}

func preset(name string, edge, fragility, momentum float64, regime signal.Regime, domains [signal.NumDomains]float64) Preset {
	snap := signal.RiskSnapshot{
		EdgeScore: edge,
		Regime:    regime,
		Fragility: fragility,
		Momentum:  momentum,
		Domains:   domains,
	}
	for i := range snap.HasDomain {
		snap.HasDomain[i] = true
	}
	return Preset{Name: name, Snap: snap}
}

// Ladder is the ordered set of canned snapshots used for manual simulation
// stepping. Advancing wraps modulo its length.
var Ladder = []Preset{
	preset("baseline", 0.08, 0.10, 0.00, signal.RegimeCalm,
		[signal.NumDomains]float64{0.10, 0.12, 0.08, 0.06, 0.09}),
	preset("ripples", 0.20, 0.18, 0.02, signal.RegimeCalm,
		[signal.NumDomains]float64{0.28, 0.15, 0.22, 0.12, 0.18}),
	preset("tremor", 0.33, 0.27, 0.05, signal.RegimeElevated,
		[signal.NumDomains]float64{0.42, 0.25, 0.38, 0.20, 0.30}),
	preset("divergence", 0.45, 0.38, 0.08, signal.RegimeElevated,
		[signal.NumDomains]float64{0.55, 0.33, 0.52, 0.31, 0.40}),
	preset("contagion", 0.58, 0.52, 0.12, signal.RegimeStressed,
		[signal.NumDomains]float64{0.66, 0.45, 0.62, 0.48, 0.55}),
	preset("cascade", 0.70, 0.66, 0.15, signal.RegimeStressed,
		[signal.NumDomains]float64{0.78, 0.58, 0.72, 0.62, 0.70}),
	preset("overload", 0.84, 0.80, 0.18, signal.RegimeCritical,
		[signal.NumDomains]float64{0.88, 0.74, 0.86, 0.78, 0.84}),
	preset("collapse", 0.95, 0.92, 0.10, signal.RegimeCritical,
		[signal.NumDomains]float64{0.97, 0.90, 0.96, 0.92, 0.94}),
}
