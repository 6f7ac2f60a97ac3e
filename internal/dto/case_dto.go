package dto

type ListCaseChunksRequest struct {
	Dept  string `query:"dept"`
	Page  int    `query:"page"`
	Limit int    `query:"limit" validate:"max=100"`
}

type CaseChunkSummary struct {
	Id         string `json:"id"`
	Title      string `json:"title"`
	Dept       string `json:"dept"`
	Section    string `json:"section"`
	CaseNumber string `json:"case_number"`
	ChunkIndex int    `json:"chunk_index"`
}

type ListCaseChunksResponse struct {
	Total  int64              `json:"total"`
	Chunks []CaseChunkSummary `json:"chunks"`
}
