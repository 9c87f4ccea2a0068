// Package linkage orchestrates an end-to-end record linkage run: validation,
// crop blocking, parallel per-block similarity scoring, match classification,
// merge resolution, and quality grading of every output record. A run is
// pure in-memory computation; results are deterministic for identical input,
// including output order.
package linkage
