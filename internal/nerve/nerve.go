package nerve

import (
	"context"
	"log"
	"time"

	"github.com/ravlen/nervescope/internal/procgen"
	"github.com/ravlen/nervescope/internal/signal"
)

// Mode distinguishes the live feed from the deterministic ladder.
type Mode int

const (
	Simulated Mode = iota
	Live
)

func (m Mode) String() string {
	if m == Live {
		return "LIVE"
	}
	return "SIMULATED"
}

// Smoothing and polling defaults. k=0.02 gives a ~50-frame time constant at
// 60fps, slow enough that regime flips read as tides rather than cuts.
const (
	DefaultSmoothing    = 0.02
	DefaultPollInterval = 60 * time.Second
)

// Fetcher is the signal-source contract the reconciler polls. *signal.Source
// satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) (*signal.RiskSnapshot, error)
}

// Snapshot is the smoothed per-frame view handed to a scene. Value type:
// copies share nothing.
type Snapshot struct {
	Edge      float64
	Fragility float64
	Momentum  float64
	Domains   [signal.NumDomains]float64

	// Regime is the discrete target band; RegimeBlend is its smoothed
	// numeric shadow (0=CALM .. 3=CRITICAL) for visual transitions.
	Regime      signal.Regime
	RegimeBlend float64

	Mode     Mode
	Live     bool // apiAvailable
	SimLevel int
}

type fetchResult struct {
	snap *signal.RiskSnapshot
	err  error
}

// Nerve is the single reconciler shared by all scenes. All methods must be
// called from the render-loop goroutine; the only concurrency is the fetch
// goroutine, which communicates exclusively through the results channel.
type Nerve struct {
	source Fetcher // nil means simulation only

	current signal.RiskSnapshot
	target  signal.RiskSnapshot

	// regimeBlend chases float64(target.Regime) so regime changes ease
	// instead of snapping.
	regimeBlend float64

	mode         Mode
	apiAvailable bool
	simLevel     int

	smoothing    float64
	pollInterval time.Duration
	lastPoll     time.Time

	inFlight bool
	probing  bool // the one startup fetch, applied even while SIMULATED
	results  chan fetchResult

	verbose bool
}

// New creates a reconciler seeded from the first ladder rung. If source is
// non-nil one background probe starts immediately; rendering never waits on
// it.
func New(source Fetcher) *Nerve {
	n := &Nerve{
		source:       source,
		mode:         Simulated,
		smoothing:    DefaultSmoothing,
		pollInterval: DefaultPollInterval,
		results:      make(chan fetchResult, 1),
	}
	n.current = Ladder[0].Snap
	n.target = Ladder[0].Snap
	n.regimeBlend = float64(n.target.Regime)
	if source != nil {
		n.probing = true
		n.launchFetch(time.Now())
	}
	return n
}

// SetSmoothing overrides the per-tick smoothing factor.
func (n *Nerve) SetSmoothing(k float64) { n.smoothing = k }

// SetPollInterval overrides the live re-poll interval.
func (n *Nerve) SetPollInterval(d time.Duration) { n.pollInterval = d }

// SetVerbose enables probe/poll failure logging. Failures stay silent to the
// rendering layer either way.
func (n *Nerve) SetVerbose(v bool) { n.verbose = v }

// Tick advances the session one frame: consume any finished fetch, smooth
// current toward target, and re-poll when due. It never blocks.
func (n *Nerve) Tick(now time.Time) {
	select {
	case res := <-n.results:
		n.inFlight = false
		n.applyResult(res)
	default:
	}

	k := n.smoothing
	n.current.EdgeScore = procgen.Smooth(n.current.EdgeScore, n.target.EdgeScore, k)
	n.current.Fragility = procgen.Smooth(n.current.Fragility, n.target.Fragility, k)
	n.current.Momentum = procgen.Smooth(n.current.Momentum, n.target.Momentum, k)
	for i := range n.current.Domains {
		n.current.Domains[i] = procgen.Smooth(n.current.Domains[i], n.target.Domains[i], k)
	}
	n.regimeBlend = procgen.Smooth(n.regimeBlend, float64(n.target.Regime), k)
	n.current.Regime = n.target.Regime

	if n.mode == Live && n.source != nil && !n.inFlight && now.Sub(n.lastPoll) >= n.pollInterval {
		n.launchFetch(now)
	}
}

// AdvanceLadder forces SIMULATED mode and retargets the next ladder rung.
func (n *Nerve) AdvanceLadder() {
	n.mode = Simulated
	n.simLevel = (n.simLevel + 1) % len(Ladder)
	n.target = Ladder[n.simLevel].Snap
}

// ToggleMode flips LIVE/SIMULATED. Without a source that has ever succeeded
// this is a no-op: there is nothing to toggle into.
func (n *Nerve) ToggleMode() {
	if !n.apiAvailable || n.source == nil {
		return
	}
	if n.mode == Live {
		n.mode = Simulated
		return
	}
	n.mode = Live
	if !n.inFlight {
		n.launchFetch(time.Now())
	}
}

// Snapshot returns the smoothed per-frame view.
func (n *Nerve) Snapshot() Snapshot {
	return Snapshot{
		Edge:        n.current.EdgeScore,
		Fragility:   n.current.Fragility,
		Momentum:    n.current.Momentum,
		Domains:     n.current.Domains,
		Regime:      n.target.Regime,
		RegimeBlend: n.regimeBlend,
		Mode:        n.mode,
		Live:        n.apiAvailable,
		SimLevel:    n.simLevel,
	}
}

// Mode returns the current mode.
func (n *Nerve) Mode() Mode { return n.mode }

// APIAvailable reports whether any fetch has succeeded more recently than
// the last failure.
func (n *Nerve) APIAvailable() bool { return n.apiAvailable }

// SimLevel returns the active ladder index.
func (n *Nerve) SimLevel() int { return n.simLevel }

// Target returns the snapshot current is chasing.
func (n *Nerve) Target() signal.RiskSnapshot { return n.target }

func (n *Nerve) launchFetch(now time.Time) {
	n.inFlight = true
	n.lastPoll = now
	src := n.source
	go func() {
		snap, err := src.Fetch(context.Background())
		// Buffered: the send never blocks the fetch goroutine, and Tick
		// drains before any new launch.
		n.results <- fetchResult{snap: snap, err: err}
	}()
}

// applyResult folds a finished fetch into the session. Failures demote, never
// surface.
func (n *Nerve) applyResult(res fetchResult) {
	probe := n.probing
	n.probing = false

	if res.err != nil {
		if n.verbose {
			log.Printf("nerve: fetch failed: %v", res.err)
		}
		n.apiAvailable = false
		if n.mode == Live {
			n.mode = Simulated
		}
		return
	}

	n.apiAvailable = true
	if probe || n.mode == Live {
		n.mode = Live
		n.retarget(res.snap)
	}
}

// retarget overwrites target from a validated snapshot. Domains the payload
// did not carry keep their prior target value.
func (n *Nerve) retarget(snap *signal.RiskSnapshot) {
	n.target.EdgeScore = snap.EdgeScore
	n.target.Regime = snap.Regime
	n.target.Fragility = snap.Fragility
	n.target.Momentum = snap.Momentum
	n.target.Timestamp = snap.Timestamp
	for i := range snap.Domains {
		if snap.HasDomain[i] {
			n.target.Domains[i] = snap.Domains[i]
			n.target.HasDomain[i] = true
		}
	}
}
