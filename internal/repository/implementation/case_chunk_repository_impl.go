package implementation

import (
	"context"

	"case-advisor-be/internal/entity"
	"case-advisor-be/internal/mapper"
	"case-advisor-be/internal/model"
	"case-advisor-be/internal/repository/contract"
	"case-advisor-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CaseChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CaseChunkMapper
}

func NewCaseChunkRepository(db *gorm.DB) contract.CaseChunkRepository {
	return &CaseChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewCaseChunkMapper(),
	}
}

func (r *CaseChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CaseChunkRepositoryImpl) CreateBatch(ctx context.Context, chunks []*entity.CaseChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.CaseChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

// SearchSimilarWithDistance returns the k nearest chunks with their cosine
// distance. pgvector's <=> operator is cosine distance (0 = identical).
func (r *CaseChunkRepositoryImpl) SearchSimilarWithDistance(ctx context.Context, embedding []float32, k int) ([]*contract.ScoredCaseChunk, error) {
	if k <= 0 {
		k = 5
	}

	type result struct {
		model.CaseChunk
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("case_chunks").
		Select("case_chunks.*, embedding_value <=> ? as distance", queryVector).
		Where("case_chunks.deleted_at IS NULL").
		Order("distance ASC").
		Limit(k).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredCaseChunk, len(results))
	for i := range results {
		scored[i] = &contract.ScoredCaseChunk{
			Chunk:    r.mapper.ToEntity(&results[i].CaseChunk),
			Distance: results[i].Distance,
		}
	}
	return scored, nil
}

func (r *CaseChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseChunk, error) {
	var models []*model.CaseChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entities := make([]*entity.CaseChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *CaseChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CaseChunk{}).Count(&count).Error
	return count, err
}
