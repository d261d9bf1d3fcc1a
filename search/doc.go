// Package search provides similarity queries over a built alignment
// index.
//
// A Searcher pairs a vector index with its metadata store and the
// embedding model it was built with. Queries are embedded, matched
// against the index, and returned as scored alignment records,
// optionally restricted to a single document part.
package search
