package service

import (
	"context"

	"case-advisor-be/internal/dto"
	"case-advisor-be/internal/repository/contract"
	"case-advisor-be/internal/repository/specification"
)

type ICaseService interface {
	ListChunks(ctx context.Context, request *dto.ListCaseChunksRequest) (*dto.ListCaseChunksResponse, error)
}

// caseService exposes read access to the ingested case corpus, mainly for
// operators checking what the advisor retrieves from.
type caseService struct {
	chunkRepo contract.CaseChunkRepository
}

func NewCaseService(chunkRepo contract.CaseChunkRepository) ICaseService {
	return &caseService{
		chunkRepo: chunkRepo,
	}
}

func (cs *caseService) ListChunks(ctx context.Context, request *dto.ListCaseChunksRequest) (*dto.ListCaseChunksResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	limit := request.Limit
	if limit <= 0 {
		limit = 20
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	}
	if request.Dept != "" {
		specs = append([]specification.Specification{specification.ByDept{Dept: request.Dept}}, specs...)
	}

	chunks, err := cs.chunkRepo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	total, err := cs.chunkRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.CaseChunkSummary, 0, len(chunks))
	for _, c := range chunks {
		summaries = append(summaries, dto.CaseChunkSummary{
			Id:         c.Id.String(),
			Title:      c.Title,
			Dept:       c.Dept,
			Section:    c.Section,
			CaseNumber: c.CaseNumber,
			ChunkIndex: c.ChunkIndex,
		})
	}

	return &dto.ListCaseChunksResponse{
		Total:  total,
		Chunks: summaries,
	}, nil
}
