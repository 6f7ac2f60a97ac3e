package bootstrap

import (
	"context"

	"case-advisor-be/internal/config"
	"case-advisor-be/internal/constant"
	"case-advisor-be/internal/controller"
	"case-advisor-be/internal/pkg/logger"
	"case-advisor-be/internal/repository/implementation"
	"case-advisor-be/internal/repository/memory"
	redisrepo "case-advisor-be/internal/repository/redis"
	"case-advisor-be/internal/service"
	"case-advisor-be/pkg/ai/router"
	"case-advisor-be/pkg/embedding"
	"case-advisor-be/pkg/llm"
	geminillm "case-advisor-be/pkg/llm/gemini"
	ollamallm "case-advisor-be/pkg/llm/ollama"
	"case-advisor-be/pkg/rag/draft"
	"case-advisor-be/pkg/rag/rerank"
	"case-advisor-be/pkg/rag/response"
	"case-advisor-be/pkg/rag/search"
	"case-advisor-be/pkg/store"

	pktNats "case-advisor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController
	CaseController controller.ICaseController

	// Background Services (Exposed for main.go to run)
	AuditService service.IAuditService

	// Loggers exposed for shutdown flushing
	SysLogger *logger.ZapLogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	llmLogger := service.InitLLMLogger()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		sysLogger.Info("Bootstrap", "Using Embedding Provider: OLLAMA", map[string]interface{}{"model": cfg.Ai.OllamaModel})
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		sysLogger.Info("Bootstrap", "Using Embedding Provider: GEMINI", nil)
	}

	roleModels := llm.RoleModels{
		llm.RoleRouter:   cfg.Ai.RouterModel,
		llm.RoleReranker: cfg.Ai.RerankerModel,
		llm.RoleAnswerer: cfg.Ai.AnswererModel,
		llm.RoleWriter:   cfg.Ai.WriterModel,
	}

	var llmProvider llm.Provider
	if cfg.Ai.LLMProvider == "gemini" {
		llmProvider = geminillm.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.LLMModel, roleModels)
	} else {
		llmProvider = ollamallm.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel, roleModels)
	}
	sysLogger.Info("Bootstrap", "Using LLM Provider: "+cfg.Ai.LLMProvider, map[string]interface{}{"model": cfg.Ai.LLMModel})

	// 4. Session Storage
	var sessionStore store.SessionStore
	if cfg.App.SessionBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
		sessionStore = redisrepo.NewSessionRepository(rdb)
		sysLogger.Info("Bootstrap", "Using Session Backend: REDIS", nil)
	} else {
		sessionStore = memory.NewSessionRepository()
		sysLogger.Info("Bootstrap", "Using Session Backend: MEMORY", nil)
	}

	// 5. Optional cross-service event bus
	var extPublisher service.EventPublisher
	if cfg.App.NatsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			extPublisher = natsPub
			sysLogger.Info("Bootstrap", "NATS Publisher connected", map[string]interface{}{"url": cfg.App.NatsURL})
		}
	}

	// 6. Pipeline components
	chunkRepo := implementation.NewCaseChunkRepository(db)
	searchOrchestrator := search.NewOrchestrator(embeddingProvider, chunkRepo, llmLogger)
	classifier := router.NewClassifier(llmProvider, llmLogger)
	drafter := draft.NewFlow(llmProvider, draft.NewHeuristicDetector(0), cfg.Rag.DraftHistoryCap, llmLogger)
	reranker := rerank.NewReranker(llmProvider, llmLogger)
	generator := response.NewGenerator(llmProvider, cfg.Rag.EvidenceCharCap, llmLogger)

	chatService := service.NewChatService(
		sessionStore,
		classifier,
		searchOrchestrator,
		drafter,
		reranker,
		generator,
		pubSub,
		extPublisher,
		cfg.Rag,
		llmLogger,
		sysLogger,
	)

	auditLogger := service.InitAuditLogger()
	auditService := service.NewAuditService(pubSub, constant.TurnAuditTopicName, auditLogger, sysLogger)

	caseService := service.NewCaseService(chunkRepo)

	return &Container{
		ChatController: controller.NewChatController(chatService),
		CaseController: controller.NewCaseController(caseService),
		AuditService:   auditService,
		SysLogger:      sysLogger,
	}
}
