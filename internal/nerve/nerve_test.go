package nerve_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ravlen/nervescope/internal/nerve"
	"github.com/ravlen/nervescope/internal/signal"
)

// fakeSource is a scriptable Fetcher. When gate is non-nil, Fetch blocks
// until the gate closes, simulating a slow endpoint.
type fakeSource struct {
	mu    sync.Mutex
	snap  *signal.RiskSnapshot
	err   error
	calls int
	gate  chan struct{}
}

func (f *fakeSource) Fetch(ctx context.Context) (*signal.RiskSnapshot, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	snap, err := f.snap, f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if snap == nil && err == nil {
		err = errors.New("fake: nothing scripted")
	}
	return snap, err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func liveSnapshot(edge float64) *signal.RiskSnapshot {
	snap := &signal.RiskSnapshot{
		EdgeScore: edge,
		Regime:    signal.RegimeStressed,
		Fragility: 0.3,
	}
	snap.Domains[signal.Markets] = 0.5
	snap.HasDomain[signal.Markets] = true
	return snap
}

// tickUntilSettled ticks until any in-flight fetch result has been consumed.
func tickUntilSettled(n *nerve.Nerve, cond func() bool) {
	Eventually(func() bool {
		n.Tick(time.Now())
		return cond()
	}, time.Second, time.Millisecond).Should(BeTrue())
}

var _ = Describe("Nerve", func() {
	Describe("smoothing", func() {
		It("matches the closed-form exponential result", func() {
			n := nerve.New(nil)
			start := n.Snapshot().Edge
			n.AdvanceLadder()
			target := n.Target().EdgeScore

			const steps = 120
			now := time.Now()
			for i := 0; i < steps; i++ {
				n.Tick(now)
			}

			want := target - (target-start)*math.Pow(1-nerve.DefaultSmoothing, steps)
			Expect(n.Snapshot().Edge).To(BeNumerically("~", want, 1e-12))
		})

		It("smooths every domain score independently", func() {
			n := nerve.New(nil)
			before := n.Snapshot()
			n.AdvanceLadder()
			n.Tick(time.Now())
			after := n.Snapshot()
			target := n.Target()

			for d := 0; d < signal.NumDomains; d++ {
				want := before.Domains[d] + (target.Domains[d]-before.Domains[d])*nerve.DefaultSmoothing
				Expect(after.Domains[d]).To(BeNumerically("~", want, 1e-12))
			}
		})

		It("never jumps current on a ladder switch", func() {
			n := nerve.New(nil)
			before := n.Snapshot().Edge
			n.AdvanceLadder()
			Expect(n.Snapshot().Edge).To(Equal(before))
			n.Tick(time.Now())
			moved := math.Abs(n.Snapshot().Edge - before)
			Expect(moved).To(BeNumerically("<", 0.05))
		})
	})

	Describe("the simulation ladder", func() {
		It("cycles back to level 0 after a full loop", func() {
			n := nerve.New(nil)
			Expect(n.SimLevel()).To(Equal(0))
			for i := 0; i < len(nerve.Ladder); i++ {
				n.AdvanceLadder()
			}
			Expect(n.SimLevel()).To(Equal(0))
		})

		It("forces SIMULATED mode", func() {
			src := &fakeSource{snap: liveSnapshot(0.42)}
			n := nerve.New(src)
			tickUntilSettled(n, func() bool { return n.Mode() == nerve.Live })

			n.AdvanceLadder()
			Expect(n.Mode()).To(Equal(nerve.Simulated))
			Expect(n.Target().EdgeScore).To(Equal(nerve.Ladder[1].Snap.EdgeScore))
		})
	})

	Describe("mode toggling", func() {
		It("is a no-op when no fetch has ever succeeded", func() {
			n := nerve.New(nil)
			Expect(n.Mode()).To(Equal(nerve.Simulated))
			n.ToggleMode()
			Expect(n.Mode()).To(Equal(nerve.Simulated))
		})

		It("flips between LIVE and SIMULATED once the source has succeeded", func() {
			src := &fakeSource{snap: liveSnapshot(0.42)}
			n := nerve.New(src)
			tickUntilSettled(n, func() bool { return n.Mode() == nerve.Live })

			n.ToggleMode()
			Expect(n.Mode()).To(Equal(nerve.Simulated))
			n.ToggleMode()
			Expect(n.Mode()).To(Equal(nerve.Live))
		})
	})

	Describe("the startup probe", func() {
		It("promotes to LIVE on success", func() {
			src := &fakeSource{snap: liveSnapshot(0.42)}
			n := nerve.New(src)
			tickUntilSettled(n, func() bool { return n.Mode() == nerve.Live })
			Expect(n.APIAvailable()).To(BeTrue())
			Expect(n.Target().EdgeScore).To(Equal(0.42))
			Expect(n.Target().Regime).To(Equal(signal.RegimeStressed))
		})

		It("stays silently SIMULATED on failure", func() {
			src := &fakeSource{err: errors.New("connection refused")}
			n := nerve.New(src)
			tickUntilSettled(n, func() bool { return src.callCount() == 1 })
			for i := 0; i < 5; i++ {
				n.Tick(time.Now())
			}
			Expect(n.Mode()).To(Equal(nerve.Simulated))
			Expect(n.APIAvailable()).To(BeFalse())
		})
	})

	Describe("live polling", func() {
		It("updates only the domains the payload carried", func() {
			src := &fakeSource{snap: liveSnapshot(0.42)}
			n := nerve.New(src)
			before := n.Target().Domains
			tickUntilSettled(n, func() bool { return n.Mode() == nerve.Live })

			target := n.Target()
			Expect(target.Domains[signal.Markets]).To(Equal(0.5))
			for _, d := range []signal.Domain{signal.Climate, signal.Information, signal.SocialConflict, signal.SupplyChain} {
				Expect(target.Domains[d]).To(Equal(before[d]))
			}
		})

		It("demotes to SIMULATED when a poll fails", func() {
			src := &fakeSource{snap: liveSnapshot(0.42)}
			n := nerve.New(src)
			n.SetPollInterval(10 * time.Millisecond)
			tickUntilSettled(n, func() bool { return n.Mode() == nerve.Live })

			src.mu.Lock()
			src.snap, src.err = nil, errors.New("gateway timeout")
			src.mu.Unlock()

			later := time.Now().Add(time.Minute)
			Eventually(func() nerve.Mode {
				n.Tick(later)
				later = later.Add(time.Minute)
				return n.Mode()
			}, time.Second, time.Millisecond).Should(Equal(nerve.Simulated))
			Expect(n.APIAvailable()).To(BeFalse())

			// With no working source, toggling back to LIVE is refused.
			n.ToggleMode()
			Expect(n.Mode()).To(Equal(nerve.Simulated))
		})

		It("never starts a second fetch while one is outstanding", func() {
			gate := make(chan struct{})
			src := &fakeSource{snap: liveSnapshot(0.42), gate: gate}
			n := nerve.New(src)
			Eventually(src.callCount, time.Second, time.Millisecond).Should(Equal(1))

			// The probe hangs on the gate; ticking far past the poll
			// interval must not launch another fetch.
			later := time.Now().Add(time.Hour)
			for i := 0; i < 50; i++ {
				n.Tick(later)
				later = later.Add(time.Hour)
			}
			Expect(src.callCount()).To(Equal(1))

			close(gate)
			tickUntilSettled(n, func() bool { return n.Mode() == nerve.Live })
			Eventually(func() int {
				n.Tick(later)
				later = later.Add(time.Hour)
				return src.callCount()
			}, time.Second, time.Millisecond).Should(BeNumerically(">", 1))
		})
	})
})
