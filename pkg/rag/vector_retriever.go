package rag

import (
	"context"
	"fmt"

	"rag-qa-be/internal/pkg/logger"
	"rag-qa-be/internal/repository/contract"
	"rag-qa-be/pkg/embedding"
)

// Config encapsulates vector search parameters
type Config struct {
	TopK      int
	Threshold float64
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		TopK:      10,
		Threshold: 0.35,
	}
}

// VectorRetriever embeds the question and runs cosine-similarity search over
// the pgvector-backed document store.
type VectorRetriever struct {
	embeddingProvider embedding.EmbeddingProvider
	documents         contract.DocumentRepository
	config            Config
	logger            logger.ILogger
}

var _ Retriever = &VectorRetriever{}

func NewVectorRetriever(embeddingProvider embedding.EmbeddingProvider, documents contract.DocumentRepository, config Config, log logger.ILogger) *VectorRetriever {
	return &VectorRetriever{
		embeddingProvider: embeddingProvider,
		documents:         documents,
		config:            config,
		logger:            log,
	}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, question string) ([]Document, error) {
	embeddingRes, err := r.embeddingProvider.Generate(question, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := r.documents.SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		r.config.TopK,
		r.config.Threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	r.logger.Debug("retriever", "vector search results", map[string]interface{}{
		"count": len(scored),
	})

	docs := make([]Document, 0, len(scored))
	for _, s := range scored {
		docs = append(docs, Document{
			Text:  s.Document.Content,
			Title: s.Document.Title,
			Repo:  s.Document.Repo,
		})
	}
	return docs, nil
}
