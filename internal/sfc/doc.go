// Package sfc holds the data model of the recovered state machine:
// steps backed by integer constants, guarded prioritized transitions,
// qualified actions and the chart tying them to one source snapshot.
package sfc
