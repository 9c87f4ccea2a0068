// Package quality grades unified variety records independently of matching:
// a weighted completeness score over field groups, a discrete quality flag,
// and a confidence level that also accounts for how many independent sources
// contributed. Every output record is graded, matched or not.
package quality
