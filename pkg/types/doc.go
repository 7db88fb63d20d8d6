// Package types defines the data model shared by the reconciliation
// pipeline: repository entries, resolved targets, probe results, planned
// actions, per-entry outcomes and the run report, plus the FS interface the
// probe and executor operate on.
package types
