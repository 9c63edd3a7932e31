// Package orchestrator wires the descriptor loader → dto session → verifier →
// sink pipeline behind a single entry point. It owns the semantic environment
// of one project, rebuilds it lazily after Invalidate and implements
// coordinator.Regenerator so the incremental coordinator can drive it.
package orchestrator
