// Package edit holds the text-preserving source mutators. Every
// mutator takes the full text, re-parses it, computes line edits and
// returns the new text; lines the operation does not touch survive
// byte for byte. A mutator that cannot apply cleanly returns its input
// unchanged instead of guessing.
package edit
