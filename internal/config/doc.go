// Package config loads and validates seedlink configuration. Policy values
// (similarity weights, tier thresholds, quality cut points) live here and are
// passed explicitly into component constructors, so concurrent linkage runs
// with different policies never interfere through ambient state.
package config
