// Package nerve owns the shared risk-signal session consumed by every scene.
//
// A [Nerve] reconciles two snapshots: target (set by a successful poll or a
// simulation-ladder selection) and current (exponentially smoothed toward
// target, one step per frame). Scenes read the smoothed [Snapshot]; they
// never see a discontinuous jump and never see a fetch error.
//
// # Modes
//
// The session starts SIMULATED and fires one best-effort background probe.
// A successful probe promotes it to LIVE; while LIVE it re-polls on an
// interval, demoting itself silently back to SIMULATED on any failure.
// The render loop never blocks on the network: fetches run in a goroutine
// and deliver their result on a channel consumed at the top of a later Tick.
//
// There is exactly one mutator (the Tick caller) and any number of per-frame
// readers, so no locking is needed beyond the result channel.
package nerve
