// Package ingestion reads chunk and alignment corpora from JSONL
// files.
//
// Input files come from upstream text extraction and alignment tools.
// Damaged lines are skipped and counted rather than failing the load,
// so one bad record never blocks a corpus.
package ingestion
