package contract

import (
	"context"

	"rag-qa-be/internal/entity"
)

// ScoredDocument wraps a Document with its cosine similarity score
type ScoredDocument struct {
	Document   *entity.Document
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document, embedding []float32) error
	// SearchSimilarWithScore returns documents with their similarity scores, filtered by threshold
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredDocument, error)
}
