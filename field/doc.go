// Package field implements a square scalar field of activity levels that
// evolves by local diffusion.
//
// An [Engine] owns an NxN [Grid] of values in [0,1]. Each diffusion step
// moves every cell towards the mean of its clipped 3x3 neighbourhood, read
// from the frozen pre-step grid, and then clamps the field back into [0,1].
// Patterns can be written over sub-regions of the field and global
// disorder is measured with [Engine.ComputeMetrics].
//
// The engine is a synchronous numeric kernel: it never schedules work on
// its own. Callers drive it one step at a time.
package field
