package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"unicode/utf8"

	"case-advisor-be/internal/config"
	"case-advisor-be/internal/constant"
	"case-advisor-be/internal/dto"
	"case-advisor-be/internal/pkg/logger"
	"case-advisor-be/pkg/ai/router"
	"case-advisor-be/pkg/events"
	"case-advisor-be/pkg/rag/draft"
	"case-advisor-be/pkg/rag/gate"
	"case-advisor-be/pkg/rag/interview"
	"case-advisor-be/pkg/rag/rerank"
	"case-advisor-be/pkg/rag/response"
	"case-advisor-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IChatService defines the chat service interface
type IChatService interface {
	HandleTurn(ctx context.Context, request *dto.ChatTurnRequest) (*dto.ChatTurnResponse, error)
	GetHistory(ctx context.Context, sessionId string, limit int) (*dto.ChatHistoryResponse, error)
}

// EvidenceSource retrieves scored candidate chunks for a query.
type EvidenceSource interface {
	Search(ctx context.Context, query string, k int) ([]store.Candidate, error)
}

// EventPublisher sends audit events to an external bus. Optional.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// chatService coordinates domain components
type chatService struct {
	sessions      store.SessionStore
	classifier    *router.Classifier
	evidence      EvidenceSource
	evidenceGate  *gate.Gate
	tracker       *interview.Tracker
	reranker      *rerank.Reranker
	generator     *response.Generator
	drafter       *draft.Flow
	publisher     message.Publisher // in-process audit bus
	extPublisher  EventPublisher    // cross-service bus, nil when disabled
	ragCfg        config.RagConfig
	llmLogger     *log.Logger    // isolated pipeline log
	sysLogger     logger.ILogger // structured application log
}

// NewChatService wires the turn pipeline around the injected providers.
func NewChatService(
	sessions store.SessionStore,
	classifier *router.Classifier,
	evidence EvidenceSource,
	drafter *draft.Flow,
	reranker *rerank.Reranker,
	generator *response.Generator,
	publisher message.Publisher,
	extPublisher EventPublisher,
	ragCfg config.RagConfig,
	llmLogger *log.Logger,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		sessions:     sessions,
		classifier:   classifier,
		evidence:     evidence,
		evidenceGate: gate.New(ragCfg.GateThreshold),
		tracker:      interview.NewTracker(ragCfg.MaxInterviewTurns, llmLogger),
		reranker:     reranker,
		generator:    generator,
		drafter:      drafter,
		publisher:    publisher,
		extPublisher: extPublisher,
		ragCfg:       ragCfg,
		llmLogger:    llmLogger,
		sysLogger:    sysLogger,
	}
}

// InitLLMLogger opens the isolated pipeline log. Falls back to stdout when
// the log directory cannot be created.
func InitLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// HandleTurn runs one full user turn: classify, then either draft a document
// or answer through the evidence pipeline. Session state commits only after
// generation succeeds; a failed or cancelled turn leaves the session exactly
// as it was.
func (cs *chatService) HandleTurn(ctx context.Context, request *dto.ChatTurnRequest) (*dto.ChatTurnResponse, error) {
	sessionId := normalizeSessionId(request.SessionId)

	if _, err := cs.sessions.GetOrCreate(ctx, sessionId); err != nil {
		return nil, fmt.Errorf("session access: %w", err)
	}

	decision, err := cs.classifier.Classify(ctx, request.Query)
	if err != nil {
		return nil, err
	}

	if decision == router.DecisionDocument {
		return cs.handleDocumentTurn(ctx, sessionId, request.Query)
	}
	return cs.handleConversationTurn(ctx, sessionId, request.Query)
}

func (cs *chatService) handleDocumentTurn(ctx context.Context, sessionId, query string) (*dto.ChatTurnResponse, error) {
	history, err := cs.sessions.Read(ctx, sessionId, 0)
	if err != nil {
		return nil, err
	}

	document, err := cs.drafter.Draft(ctx, query, history)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cs.sessions.CommitTurn(ctx, sessionId, query, document, store.CounterKeep); err != nil {
		return nil, err
	}

	cs.publishTurnEvent(ctx, sessionId, constant.DecisionDocument, "", 0, false)

	return &dto.ChatTurnResponse{
		SessionId: sessionId,
		Decision:  constant.DecisionDocument,
		Document:  document,
	}, nil
}

func (cs *chatService) handleConversationTurn(ctx context.Context, sessionId, query string) (*dto.ChatTurnResponse, error) {
	currentTurns, err := cs.sessions.InterviewTurns(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	candidates, err := cs.evidence.Search(ctx, query, cs.ragCfg.PoolSize)
	if err != nil {
		return nil, err
	}

	distances := make([]float64, len(candidates))
	for i, c := range candidates {
		distances[i] = c.Distance
	}
	gatePassed := cs.evidenceGate.Passes(distances)
	cs.llmLogger.Printf("[GATE] pool=%d passed=%v (threshold %.2f)", len(candidates), gatePassed, cs.ragCfg.GateThreshold)

	turn := cs.tracker.Decide(gatePassed, currentTurns)

	var selected []store.Candidate
	if turn.Mode == store.ModeSolution {
		indices := cs.reranker.Select(ctx, query, candidates, cs.ragCfg.RerankTopN)
		selected = make([]store.Candidate, 0, len(indices))
		for _, idx := range indices {
			selected = append(selected, candidates[idx])
		}
	}

	history, err := cs.sessions.Read(ctx, sessionId, cs.ragCfg.HistoryLimit)
	if err != nil {
		return nil, err
	}

	answer, err := cs.generator.Generate(ctx, turn.Mode, query, selected, history)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cs.sessions.CommitTurn(ctx, sessionId, query, answer, turn.CounterOp); err != nil {
		return nil, err
	}

	cs.publishTurnEvent(ctx, sessionId, constant.DecisionConversation, string(turn.Mode), turn.Turns, gatePassed)

	resp := &dto.ChatTurnResponse{
		SessionId: sessionId,
		Decision:  constant.DecisionConversation,
		Mode:      string(turn.Mode),
		Answer:    answer,
	}
	if turn.Mode == store.ModeSolution {
		resp.Sources = toSourceDTOs(selected)
	}
	return resp, nil
}

// GetHistory returns the stored conversation for a session, most recent
// messages only when limit is positive.
func (cs *chatService) GetHistory(ctx context.Context, sessionId string, limit int) (*dto.ChatHistoryResponse, error) {
	sessionId = normalizeSessionId(sessionId)

	messages, err := cs.sessions.Read(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatHistoryMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.ChatHistoryMessage{
			Role:    m.Role,
			Content: m.Content,
			Seq:     m.Seq,
		})
	}

	return &dto.ChatHistoryResponse{
		SessionId: sessionId,
		Messages:  out,
	}, nil
}

// publishTurnEvent emits the audit event on both buses. Failures are logged
// and never fail the turn.
func (cs *chatService) publishTurnEvent(ctx context.Context, sessionId, decision, mode string, turns int, gatePassed bool) {
	event := events.NewTurnCompleted(sessionId, decision, mode, turns, gatePassed)

	if cs.publisher != nil {
		payload, err := json.Marshal(event.Payload())
		if err == nil {
			msg := message.NewMessage(watermill.NewUUID(), payload)
			if err := cs.publisher.Publish(constant.TurnAuditTopicName, msg); err != nil {
				cs.sysLogger.Error("ChatService", "Audit publish failed", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
			}
		}
	}

	if cs.extPublisher != nil {
		if err := cs.extPublisher.Publish(ctx, event); err != nil {
			cs.sysLogger.Warn("ChatService", "External event publish failed", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		}
	}
}

func toSourceDTOs(selected []store.Candidate) []dto.SourceDTO {
	sources := make([]dto.SourceDTO, 0, len(selected))
	for _, c := range selected {
		preview := c.Content
		if len(preview) > constant.SourcePreviewLength {
			// Cut on a rune boundary so the preview stays valid UTF-8
			cut := constant.SourcePreviewLength
			for cut > 0 && !utf8.RuneStart(preview[cut]) {
				cut--
			}
			preview = preview[:cut] + "..."
		}
		sources = append(sources, dto.SourceDTO{
			Title:   c.Title,
			Dept:    c.Dept,
			Section: c.Section,
			Preview: preview,
		})
	}
	return sources
}

// normalizeSessionId applies the default id and the length cap. Internal
// callers never see an empty or oversized id.
func normalizeSessionId(id string) string {
	if id == "" {
		return constant.DefaultSessionId
	}
	if len(id) > constant.MaxSessionIdLength {
		return id[:constant.MaxSessionIdLength]
	}
	return id
}
