// Package matcher combines per-pair similarity signals into a confidence
// score and discrete tier. Classification is deterministic: identical
// similarity vectors always produce identical results. Policy (weights, tier
// thresholds, year tolerance) is injected at construction and validated
// there, never read from ambient state.
package matcher
