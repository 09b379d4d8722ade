// Package eventlog captures structured device events in a compact CBOR
// format.
//
// Events cover the full beacon lifecycle: network readiness, time sync,
// name probes and conflicts, confirmation, announcements, and HTTP
// requests. Records use integer CBOR keys for compactness and can be
// written to a file (FileLogger), mirrored to slog (SlogAdapter), fanned
// out (MultiLogger), or discarded (NoopLogger).
package eventlog
