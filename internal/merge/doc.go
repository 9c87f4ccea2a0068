// Package merge builds unified variety records. Accepted matches are merged
// field by field, preferring non-empty values; conflicting non-empty values
// are kept under a conflict marker rather than silently discarded, since
// silent data loss is treated as a correctness bug. Unmatched records pass
// through with single-source provenance.
package merge
