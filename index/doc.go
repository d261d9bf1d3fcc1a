// Package index builds and loads vector indexes over alignment
// embeddings.
//
// An index directory holds three artifacts written together: the
// vector index itself, a positional JSONL metadata file pairing each
// vector with its alignment record, and a JSON configuration recording
// the embedding model and build parameters. Exact flat variants serve
// small corpora; an approximate HNSW graph serves large ones.
package index
