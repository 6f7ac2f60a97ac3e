package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CaseChunk is one retrievable slice of a prior case record. Rows are
// written by the seed command; the service itself only reads.
type CaseChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content        string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	Title          string          `gorm:"type:varchar(512)"`
	Dept           string          `gorm:"type:varchar(128);index"`
	Section        string          `gorm:"type:varchar(128)"`
	CaseNumber     string          `gorm:"type:varchar(64);index"`
	Extra          datatypes.JSON  `gorm:"type:jsonb"` // Remaining source-record metadata
	ChunkIndex     int             `gorm:"default:0"`  // 0-based index for ordering
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (CaseChunk) TableName() string {
	return "case_chunks"
}
