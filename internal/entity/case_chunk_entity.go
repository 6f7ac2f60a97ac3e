package entity

import (
	"time"

	"github.com/google/uuid"
)

type CaseChunk struct {
	Id         uuid.UUID
	Content    string
	Embedding  []float32
	Title      string
	Dept       string
	Section    string
	CaseNumber string
	Extra      map[string]interface{}
	ChunkIndex int
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
