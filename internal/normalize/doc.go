// Package normalize canonicalizes free-text catalog fields into comparable
// tokens. Normalization is pure and deterministic: the same raw value always
// produces the same token, and blank input produces an explicit empty
// sentinel rather than an error so downstream scoring can treat it as
// unknown.
package normalize
