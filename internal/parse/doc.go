// Package parse turns a source snapshot into a chart: it detects the
// state-holding variable, collects the step constant table and walks
// the step chain, classifying each line as transition, action or
// boilerplate. Parsing is total and stateless; every call rebuilds the
// chart from scratch against exactly one snapshot.
package parse
