// Package services defines the shared error taxonomy for the linkage
// pipeline. Components tag failures with a sentinel marker so callers can
// classify them without string matching: validation failures are collected
// per record, configuration failures are fatal at startup, and computation
// failures signal broken internal invariants.
package services
