// Package analyze runs the well-formedness checks over a recovered
// chart: initial-step cardinality, reachability, deadlocks, nesting
// depth, priority conflicts and the reference/initialization checks
// carried over from the scanner passes.
package analyze
