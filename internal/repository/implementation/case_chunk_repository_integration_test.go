package implementation

import (
	"context"
	"log"
	"os"
	"testing"

	"case-advisor-be/internal/entity"
	"case-advisor-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration test against a real Postgres with pgvector. Skipped unless
// DB_CONNECTION_STRING is set.
func TestCaseChunkRepositoryIntegration(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	repo := NewCaseChunkRepository(gormDB)
	ctx := context.Background()

	t.Run("Count accesses the table", func(t *testing.T) {
		count, err := repo.Count(ctx)
		assert.NoError(t, err)
		t.Logf("CaseChunk count: %d", count)
	})

	t.Run("Insert and search round trip", func(t *testing.T) {
		vector := make([]float32, 768)
		vector[0] = 1.0

		chunk := &entity.CaseChunk{
			Id:         uuid.New(),
			Content:    "Integration test chunk",
			Embedding:  vector,
			Title:      "Integration Case",
			Dept:       "it-test",
			Section:    "Summary",
			CaseNumber: "IT-0001",
		}
		require.NoError(t, repo.CreateBatch(ctx, []*entity.CaseChunk{chunk}))

		scored, err := repo.SearchSimilarWithDistance(ctx, vector, 1)
		require.NoError(t, err)
		require.NotEmpty(t, scored)
		assert.InDelta(t, 0.0, scored[0].Distance, 1e-3, "identical vector should have near-zero distance")

		// Cleanup
		err = gormDB.Exec("DELETE FROM case_chunks WHERE id = ?", chunk.Id).Error
		assert.NoError(t, err)
	})
}
