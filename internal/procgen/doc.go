// Package procgen provides the low-level procedural building blocks shared
// by the scene engines:
//
//   - [Field]: coherent 3D noise sampling (opensimplex)
//   - [Smooth], [Lerp], [CubicOut]: scalar easing
//   - [LerpAngle], [AngleDist]: shortest-path circular interpolation
//   - [Heartbeat], [BeatPeriod]: synthetic ECG-style waveform
//   - [Ring]: fixed-capacity FIFO history buffer
//
// # Angular Interpolation
//
// Angles are circular quantities; a plain scalar lerp across the 0/2π wrap
// takes the long way around. Always blend directions with [LerpAngle]:
//
//	a = procgen.LerpAngle(a, target, 0.1)
package procgen
