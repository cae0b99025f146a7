// Package diag defines the diagnostic model shared by the chart builder,
// the analyzer and the CLI: severities, stable codes, the Diagnostic
// value itself and the Bag container used to collect and order findings.
package diag
