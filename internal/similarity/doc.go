// Package similarity computes independent similarity signals between two
// candidate records. String signals are symmetric and bounded to [0,1];
// institution and crop agreement are equality-style checks over normalized
// values. Two distinct name algorithms are used deliberately: normalized
// Levenshtein catches character-level edits while Jaro-Winkler weights prefix
// agreement and transpositions, so they disagree on reordered or abbreviated
// names and the combined scorer can exploit that.
package similarity
