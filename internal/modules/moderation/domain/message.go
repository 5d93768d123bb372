package domain

import (
	keywordDomain "github.com/mraprguild/guardbot/internal/modules/keyword/domain"
)

// MessageRef locates a message on the chat platform for deletion
type MessageRef struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

// Message is an inbound message handed over by the transport layer
type Message struct {
	ChannelID int64
	SenderID  int64
	Text      string
	Ref       MessageRef
}

// Decision is the per-message moderation outcome. It is transient: only its
// side effects (counters, audit events) are persisted.
type Decision struct {
	Action      Action
	MatchedRule *keywordDomain.KeywordRule
	Ref         MessageRef
}
