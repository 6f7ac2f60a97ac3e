package service

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"case-advisor-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// InitAuditLogger opens the turn audit log file.
func InitAuditLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "turn_audit.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[AUDIT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

type IAuditService interface {
	Consume(ctx context.Context) error
}

// auditService drains turn audit events into the isolated pipeline log so
// mode transitions can be inspected without touching request logs.
type auditService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    *log.Logger
	sysLogger logger.ILogger
}

func NewAuditService(
	pubSub *gochannel.GoChannel,
	topicName string,
	auditLogger *log.Logger,
	sysLogger logger.ILogger,
) IAuditService {
	return &auditService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    auditLogger,
		sysLogger: sysLogger,
	}
}

func (as *auditService) Consume(ctx context.Context) error {
	messages, err := as.pubSub.Subscribe(ctx, as.topicName)
	if err != nil {
		as.sysLogger.Error("AuditService", "Failed to subscribe to audit topic", map[string]interface{}{"topic": as.topicName, "error": err.Error()})
		return err
	}
	as.sysLogger.Info("AuditService", "Audit consumer started", map[string]interface{}{"topic": as.topicName})

	go func() {
		for msg := range messages {
			as.processMessage(msg)
		}
	}()

	return nil
}

func (as *auditService) processMessage(msg *message.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		as.sysLogger.Warn("AuditService", "Failed to unmarshal audit event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	as.logger.Printf("[AUDIT] session=%v decision=%v mode=%v interview_turns=%v evidence_passed=%v",
		payload["session_id"], payload["decision"], payload["mode"],
		payload["interview_turns"], payload["evidence_passed"])

	msg.Ack()
}
