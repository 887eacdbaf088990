package implementation

import (
	"context"

	"rag-qa-be/internal/entity"
	"rag-qa-be/internal/model"
	"rag-qa-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document, embedding []float32) error {
	m := &model.Document{
		Id:        doc.Id,
		Title:     doc.Title,
		Repo:      doc.Repo,
		Content:   doc.Content,
		Embedding: pgvector.NewVector(embedding),
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// SearchSimilarWithScore returns documents with similarity scores, filtered by threshold.
// Cosine distance in pgvector is: 1 - cosine_similarity
// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
func (r *DocumentRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredDocument, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.Document
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("documents").
		Select("documents.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("documents.deleted_at IS NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredDocument, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredDocument{
			Document: &entity.Document{
				Id:        res.Id,
				Title:     res.Title,
				Repo:      res.Repo,
				Content:   res.Content,
				CreatedAt: res.CreatedAt,
				UpdatedAt: res.UpdatedAt,
			},
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
