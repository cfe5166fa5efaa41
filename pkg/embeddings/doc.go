// Package embeddings holds the stored image embedding model and an in-process
// vector index built on chromem-go, used when Atlas is not available.
package embeddings
