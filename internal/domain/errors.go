package domain

import "errors"

var (
	// ErrRetrievalFailed signals that both retrieval stages failed; nothing
	// could be returned for the query.
	ErrRetrievalFailed = errors.New("retrieval failed")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrDocStoreUnavailable signals a document service failure.
	ErrDocStoreUnavailable = errors.New("document store unavailable")
	// ErrVectorIndexUnavailable signals a vector index failure.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
