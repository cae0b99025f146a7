// Package scan recognizes the line shapes of the supported Structured
// Text fragment. It is deliberately pattern-based, not a grammar: the
// classifier and the block matcher sit behind small types so a real
// parser could replace them without touching the chart builder, the
// analyzer or the mutators.
package scan
