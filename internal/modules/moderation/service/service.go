package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	adminDomain "github.com/mraprguild/guardbot/internal/modules/admin/domain"
	channelDomain "github.com/mraprguild/guardbot/internal/modules/channel/domain"
	eventDomain "github.com/mraprguild/guardbot/internal/modules/event/domain"
	keywordDomain "github.com/mraprguild/guardbot/internal/modules/keyword/domain"
	"github.com/mraprguild/guardbot/internal/modules/moderation/domain"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
)

// RoleResolver resolves a user to an authorization role
type RoleResolver interface {
	RoleOf(userID int64) (adminDomain.Role, error)
}

// ChannelProvider looks up registered channels
type ChannelProvider interface {
	GetChannel(channelID int64) (*channelDomain.Channel, error)
}

// RuleSet provides the active keyword rules and evaluates them
type RuleSet interface {
	ActiveRules() ([]*keywordDomain.KeywordRule, error)
	Match(rules []*keywordDomain.KeywordRule, text string) (*keywordDomain.KeywordRule, bool)
}

// CounterRecorder persists moderation counters
type CounterRecorder interface {
	RecordMessage(channelID int64, blocked bool, at time.Time) error
}

// EventLog records blocked messages for the audit feed
type EventLog interface {
	Append(event *eventDomain.BlockEvent) error
}

// Transport is the chat-platform side of a block: deleting the offending
// message and warning the sender. Both calls are best-effort; a failure is
// logged and never undoes the decision or its counters.
type Transport interface {
	DeleteMessage(ctx context.Context, ref domain.MessageRef) error
	Notify(ctx context.Context, chatID int64, text string) error
}

const warnText = "Your message was removed for violating the channel's content policy. Please respect the community guidelines."

// Service is the moderation decision engine
type Service struct {
	roles       RoleResolver
	channels    ChannelProvider
	rules       RuleSet
	counters    CounterRecorder
	events      EventLog
	transport   Transport
	warnOnBlock bool
}

// New creates a new moderation service. The transport is attached later via
// SetTransport, once the bot exists.
func New(roles RoleResolver, channels ChannelProvider, rules RuleSet, counters CounterRecorder, events EventLog, warnOnBlock bool) *Service {
	return &Service{
		roles:       roles,
		channels:    channels,
		rules:       rules,
		counters:    counters,
		events:      events,
		warnOnBlock: warnOnBlock,
	}
}

// SetTransport sets the chat-platform transport
func (s *Service) SetTransport(t Transport) {
	s.transport = t
}

// Evaluate runs one message through the moderation pass. It never fails the
// caller: storage problems fail open to allow, since blocking legitimate
// traffic on an infrastructure error is worse than letting a message through.
// Redelivered messages are evaluated (and counted) again; deduplication is
// the transport's concern.
func (s *Service) Evaluate(ctx context.Context, msg *domain.Message) *domain.Decision {
	allow := &domain.Decision{Action: domain.ActionAllow, Ref: msg.Ref}

	channel, err := s.channels.GetChannel(msg.ChannelID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			slog.Error("Channel lookup failed, allowing message", "channel_id", msg.ChannelID, "error", err)
		}
		return allow
	}
	if !channel.IsActive {
		return allow
	}

	role, err := s.roles.RoleOf(msg.SenderID)
	if err != nil {
		slog.Error("Role lookup failed, allowing message", "user_id", msg.SenderID, "error", err)
		return allow
	}
	if role != adminDomain.RoleNone {
		s.record(msg.ChannelID, false)
		return allow
	}

	if strings.TrimSpace(msg.Text) == "" {
		s.record(msg.ChannelID, false)
		return allow
	}

	rules, err := s.rules.ActiveRules()
	if err != nil {
		slog.Error("Rule lookup failed, allowing message", "error", err)
		return allow
	}

	matched, ok := s.rules.Match(rules, msg.Text)
	if !ok {
		s.record(msg.ChannelID, false)
		return allow
	}

	now := time.Now()
	s.block(ctx, msg, matched, now)
	s.record(msg.ChannelID, true)

	return &domain.Decision{
		Action:      domain.ActionBlock,
		MatchedRule: matched,
		Ref:         msg.Ref,
	}
}

func (s *Service) block(ctx context.Context, msg *domain.Message, rule *keywordDomain.KeywordRule, at time.Time) {
	slog.Warn("Blocking message",
		"channel_id", msg.ChannelID,
		"user_id", msg.SenderID,
		"pattern", rule.Pattern,
		"match_mode", rule.MatchMode)

	if s.transport == nil {
		slog.Error("No transport attached, blocked message not deleted", "message_ref", msg.Ref)
	} else {
		if err := s.transport.DeleteMessage(ctx, msg.Ref); err != nil {
			slog.Error("Failed to delete blocked message", "message_ref", msg.Ref, "error", err)
		}

		if s.warnOnBlock {
			if err := s.transport.Notify(ctx, msg.SenderID, warnText); err != nil {
				slog.Error("Failed to warn user", "user_id", msg.SenderID, "error", err)
			}
		}
	}

	event := &eventDomain.BlockEvent{
		ID:        uuid.NewString(),
		ChannelID: msg.ChannelID,
		RuleSeq:   rule.Seq,
		Pattern:   rule.Pattern,
		At:        at,
	}
	if err := s.events.Append(event); err != nil {
		slog.Error("Failed to append block event", "channel_id", msg.ChannelID, "error", err)
	}
}

func (s *Service) record(channelID int64, blocked bool) {
	if err := s.counters.RecordMessage(channelID, blocked, time.Now()); err != nil {
		slog.Error("Failed to update moderation counters", "channel_id", channelID, "error", err)
	}
}
