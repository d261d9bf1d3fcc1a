// Package rerank reorders vector-search candidates using an LLM
// relevance judge.
//
// Candidates are scored concurrently through a bounded worker pool.
// Individual scoring failures drop the candidate rather than fail the
// whole pass; only when too few candidates survive does reranking
// report an error, signaling the caller to keep the vector order.
package rerank
