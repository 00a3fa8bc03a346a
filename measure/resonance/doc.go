// Package resonance runs the pattern-injection experiment: a 50x50 field
// at rest around 0.5 is disturbed by a small pattern, diffused for a fixed
// number of steps and summarised in a JSON-ready [Report].
//
// The report keys are kept in Spanish so existing result files and tools
// keep reading them.
package resonance
