package dto

type ChatTurnRequest struct {
	SessionId string `json:"session_id,omitempty" validate:"max=64"`
	Query     string `json:"query" validate:"required,max=2500"`
}

type SourceDTO struct {
	Title   string `json:"title"`
	Dept    string `json:"dept"`
	Section string `json:"section"`
	Preview string `json:"preview,omitempty"`
}

type ChatTurnResponse struct {
	SessionId string      `json:"session_id"`
	Decision  string      `json:"decision"` // "DOCUMENT" | "CONVERSATION"
	Mode      string      `json:"mode,omitempty"`
	Answer    string      `json:"answer,omitempty"`
	Document  string      `json:"document,omitempty"`
	Sources   []SourceDTO `json:"sources,omitempty"`
}

type ChatHistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Seq     int    `json:"seq"`
}

type ChatHistoryResponse struct {
	SessionId string               `json:"session_id"`
	Messages  []ChatHistoryMessage `json:"messages"`
}
