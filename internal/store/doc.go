// Package store persists linkage runs in SQLite and exposes helpers for
// browsing them later.
//
// The Store manages the database connection, schema initialization, and the
// three durable artifacts of a run: the run report, the unified varieties,
// and the manual review queue. Saving a run is transactional; readers never
// observe a partially written run. Schema changes bump the version in
// schema.go; databases with another version are refused rather than
// migrated in place.
package store
