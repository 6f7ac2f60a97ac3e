package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"case-advisor-be/internal/config"
	"case-advisor-be/internal/entity"
	"case-advisor-be/internal/repository/implementation"
	"case-advisor-be/pkg/database"
	"case-advisor-be/pkg/embedding"

	"github.com/google/uuid"
)

// caseRecord is the ingest file format: one prior case with its sectioned
// text already split into chunks.
type caseRecord struct {
	Title      string `json:"title"`
	Dept       string `json:"dept"`
	CaseNumber string `json:"case_number"`
	Sections   []struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	} `json:"sections"`
}

func main() {
	inputPath := flag.String("file", "cases.json", "path to the case records JSON file")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error: Failed to read %s: %v", *inputPath, err)
	}

	var records []caseRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Fatalf("Error: Failed to parse %s: %v", *inputPath, err)
	}

	repo := implementation.NewCaseChunkRepository(db)
	ctx := context.Background()

	total := 0
	for _, record := range records {
		chunks := make([]*entity.CaseChunk, 0, len(record.Sections))
		for i, section := range record.Sections {
			vector, err := embeddingProvider.Generate(ctx, section.Content, embedding.TaskRetrievalDocument)
			if err != nil {
				log.Fatalf("Error: Embedding failed for case %s section %s: %v", record.CaseNumber, section.Name, err)
			}
			chunks = append(chunks, &entity.CaseChunk{
				Id:         uuid.New(),
				Content:    section.Content,
				Embedding:  vector,
				Title:      record.Title,
				Dept:       record.Dept,
				Section:    section.Name,
				CaseNumber: record.CaseNumber,
				ChunkIndex: i,
			})
		}
		if err := repo.CreateBatch(ctx, chunks); err != nil {
			log.Fatalf("Error: Insert failed for case %s: %v", record.CaseNumber, err)
		}
		total += len(chunks)
		log.Printf("Seeded case %s (%d chunks)", record.CaseNumber, len(chunks))
	}

	log.Printf("✅ Success: Seeded %d chunks from %d cases.", total, len(records))
}
