package constant

// Session identifiers
const (
	// DefaultSessionId serves callers that do not manage their own sessions.
	DefaultSessionId = "default_user"
	// MaxSessionIdLength bounds caller-supplied session ids.
	MaxSessionIdLength = 64
)

// Pub/sub topics
const (
	TurnAuditTopicName = "CHAT_TURN_AUDIT"
)

// Routing decisions exposed in responses
const (
	DecisionDocument     = "DOCUMENT"
	DecisionConversation = "CONVERSATION"
)

// SourcePreviewLength is the excerpt length shown per cited source.
const SourcePreviewLength = 160
