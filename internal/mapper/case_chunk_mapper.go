package mapper

import (
	"encoding/json"
	"time"

	"case-advisor-be/internal/entity"
	"case-advisor-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type CaseChunkMapper struct{}

func NewCaseChunkMapper() *CaseChunkMapper {
	return &CaseChunkMapper{}
}

func (m *CaseChunkMapper) ToEntity(c *model.CaseChunk) *entity.CaseChunk {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var extra map[string]interface{}
	if len(c.Extra) > 0 {
		// Best effort; malformed metadata blobs are dropped, not fatal
		_ = json.Unmarshal(c.Extra, &extra)
	}

	return &entity.CaseChunk{
		Id:         c.Id,
		Content:    c.Content,
		Embedding:  c.EmbeddingValue.Slice(),
		Title:      c.Title,
		Dept:       c.Dept,
		Section:    c.Section,
		CaseNumber: c.CaseNumber,
		Extra:      extra,
		ChunkIndex: c.ChunkIndex,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *CaseChunkMapper) ToModel(c *entity.CaseChunk) *model.CaseChunk {
	if c == nil {
		return nil
	}

	var extra datatypes.JSON
	if c.Extra != nil {
		if raw, err := json.Marshal(c.Extra); err == nil {
			extra = raw
		}
	}

	out := &model.CaseChunk{
		Id:             c.Id,
		Content:        c.Content,
		EmbeddingValue: pgvector.NewVector(c.Embedding),
		Title:          c.Title,
		Dept:           c.Dept,
		Section:        c.Section,
		CaseNumber:     c.CaseNumber,
		Extra:          extra,
		ChunkIndex:     c.ChunkIndex,
		CreatedAt:      c.CreatedAt,
	}
	if c.UpdatedAt != nil {
		out.UpdatedAt = *c.UpdatedAt
	}
	return out
}
