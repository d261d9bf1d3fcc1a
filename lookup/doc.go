// Package lookup resolves chunk references to validated alignment
// records.
//
// The service enforces the surfacing rule for the whole system: a user
// asking about a chunk only ever sees alignments that passed
// validation. When the requested chunk has none, the lookup falls back
// to the nearest lower chunk id that does, and the result says so.
package lookup
