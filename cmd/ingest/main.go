package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"rag-qa-be/internal/config"
	"rag-qa-be/internal/entity"
	"rag-qa-be/internal/repository/implementation"
	"rag-qa-be/pkg/database"
	"rag-qa-be/pkg/embedding"
	"rag-qa-be/pkg/utils"

	"github.com/google/uuid"
)

// Loads .txt/.md files into the knowledge base. Each file becomes one or more
// document chunks titled after the file name, attributed to --repo.
func main() {
	dir := flag.String("dir", "", "directory of .txt/.md files to ingest")
	repo := flag.String("repo", "docs", "knowledge-base display name for ingested documents")
	chunkSize := flag.Int("chunk-size", 1500, "max chunk length in runes")
	overlap := flag.Int("overlap", 200, "runes repeated between adjacent chunks")
	flag.Parse()

	if *dir == "" {
		log.Fatal("Error: --dir is required")
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	documents := implementation.NewDocumentRepository(db)
	embedder := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel)

	ctx := context.Background()
	total := 0

	err = filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		content := strings.TrimSpace(string(raw))
		if content == "" {
			log.Printf("Skip: %s is empty", path)
			return nil
		}

		title := strings.TrimSuffix(d.Name(), ext)
		for _, chunk := range utils.SplitText(content, *chunkSize, *overlap) {
			vec, err := embedder.Generate(chunk, "RETRIEVAL_DOCUMENT")
			if err != nil {
				return err
			}
			doc := &entity.Document{
				Id:      uuid.New(),
				Title:   title,
				Repo:    *repo,
				Content: chunk,
			}
			if err := documents.Create(ctx, doc, vec.Embedding.Values); err != nil {
				return err
			}
			total++
		}
		log.Printf("Ingested: %s", path)
		return nil
	})
	if err != nil {
		log.Fatalf("Error: Ingestion failed: %v", err)
	}

	log.Printf("Success: %d document chunks stored.", total)
}
