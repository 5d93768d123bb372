package service

import (
	"context"
	"fmt"
	"testing"

	adminRepository "github.com/mraprguild/guardbot/internal/modules/admin/repository"
	adminService "github.com/mraprguild/guardbot/internal/modules/admin/service"
	channelDomain "github.com/mraprguild/guardbot/internal/modules/channel/domain"
	channelRepository "github.com/mraprguild/guardbot/internal/modules/channel/repository"
	channelService "github.com/mraprguild/guardbot/internal/modules/channel/service"
	counterRepository "github.com/mraprguild/guardbot/internal/modules/counter/repository"
	eventRepository "github.com/mraprguild/guardbot/internal/modules/event/repository"
	keywordDomain "github.com/mraprguild/guardbot/internal/modules/keyword/domain"
	keywordRepository "github.com/mraprguild/guardbot/internal/modules/keyword/repository"
	keywordService "github.com/mraprguild/guardbot/internal/modules/keyword/service"
	"github.com/mraprguild/guardbot/internal/modules/moderation/domain"
	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const superAdminID int64 = 1

type fakeTransport struct {
	deleted  []domain.MessageRef
	notified []int64
}

func (f *fakeTransport) DeleteMessage(_ context.Context, ref domain.MessageRef) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeTransport) Notify(_ context.Context, chatID int64, _ string) error {
	f.notified = append(f.notified, chatID)
	return nil
}

type fixture struct {
	moderation *Service
	admins     *adminService.Service
	channels   *channelService.Service
	keywords   *keywordService.Service
	counters   counterRepository.Repository
	events     eventRepository.Repository
	transport  *fakeTransport
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	admins := adminService.New(adminRepository.NewStoreStorage(store))
	require.NoError(t, admins.EnsureSuperAdmin(superAdminID))

	channels := channelService.New(channelRepository.NewStoreStorage(store), admins)
	keywords := keywordService.New(keywordRepository.NewStoreStorage(store), admins)
	counters := counterRepository.NewStoreStorage(store)
	events := eventRepository.NewStoreStorage(store)

	moderation := New(admins, channels, keywords, counters, events, true)
	transport := &fakeTransport{}
	moderation.SetTransport(transport)

	return &fixture{
		moderation: moderation,
		admins:     admins,
		channels:   channels,
		keywords:   keywords,
		counters:   counters,
		events:     events,
		transport:  transport,
	}
}

func message(channelID, senderID int64, text string) *domain.Message {
	return &domain.Message{
		ChannelID: channelID,
		SenderID:  senderID,
		Text:      text,
		Ref:       domain.MessageRef{ChatID: channelID, MessageID: 7},
	}
}

func TestEvaluate_BlocksMatchingMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)
	_, err = f.keywords.AddRule(superAdminID, "leaked-cam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)

	decision := f.moderation.Evaluate(ctx, message(100, 3, "fresh LEAKED-CAM print"))
	assert.Equal(t, domain.ActionBlock, decision.Action)
	require.NotNil(t, decision.MatchedRule)
	assert.Equal(t, "leaked-cam", decision.MatchedRule.Pattern)

	require.Len(t, f.transport.deleted, 1)
	assert.Equal(t, int64(100), f.transport.deleted[0].ChatID)
	assert.Equal(t, []int64{3}, f.transport.notified)

	counter, err := f.counters.GetCounter(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), counter.TotalMessagesSeen)
	assert.Equal(t, uint64(1), counter.TotalBlocked)
	require.NotNil(t, counter.LastBlockedAt)

	events, err := f.events.Recent(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "leaked-cam", events[0].Pattern)
}

func TestEvaluate_AllowsCleanMessage(t *testing.T) {
	f := newFixture(t)

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)
	_, err = f.keywords.AddRule(superAdminID, "spam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)

	decision := f.moderation.Evaluate(context.Background(), message(100, 3, "an ordinary message"))
	assert.Equal(t, domain.ActionAllow, decision.Action)
	assert.Nil(t, decision.MatchedRule)
	assert.Empty(t, f.transport.deleted)

	counter, err := f.counters.GetCounter(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), counter.TotalMessagesSeen)
	assert.Equal(t, uint64(0), counter.TotalBlocked)
}

func TestEvaluate_UnregisteredChannelBypassed(t *testing.T) {
	f := newFixture(t)

	_, err := f.keywords.AddRule(superAdminID, "spam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)

	decision := f.moderation.Evaluate(context.Background(), message(999, 3, "pure spam"))
	assert.Equal(t, domain.ActionAllow, decision.Action)
	assert.Empty(t, f.transport.deleted)

	// Bypassed channels are not counted either.
	counter, err := f.counters.GetCounter(999)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), counter.TotalMessagesSeen)
}

func TestEvaluate_InactiveChannelBypassed(t *testing.T) {
	f := newFixture(t)

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)
	require.NoError(t, f.channels.RemoveChannel(superAdminID, 100))
	_, err = f.keywords.AddRule(superAdminID, "spam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)

	decision := f.moderation.Evaluate(context.Background(), message(100, 3, "pure spam"))
	assert.Equal(t, domain.ActionAllow, decision.Action)
	assert.Empty(t, f.transport.deleted)
}

func TestEvaluate_AdminExempt(t *testing.T) {
	f := newFixture(t)

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)
	_, err = f.keywords.AddRule(superAdminID, "spam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)
	_, err = f.admins.GrantAdmin(superAdminID, 2)
	require.NoError(t, err)

	for _, senderID := range []int64{superAdminID, 2} {
		decision := f.moderation.Evaluate(context.Background(), message(100, senderID, "pure spam"))
		assert.Equal(t, domain.ActionAllow, decision.Action)
	}
	assert.Empty(t, f.transport.deleted)

	// Exempt messages still count toward volume.
	counter, err := f.counters.GetCounter(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), counter.TotalMessagesSeen)
	assert.Equal(t, uint64(0), counter.TotalBlocked)
}

func TestEvaluate_EmptyTextAllowed(t *testing.T) {
	f := newFixture(t)

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)
	_, err = f.keywords.AddRule(superAdminID, "spam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)

	decision := f.moderation.Evaluate(context.Background(), message(100, 3, "   "))
	assert.Equal(t, domain.ActionAllow, decision.Action)
}

func TestEvaluate_EmptyRuleSetAllowsEverything(t *testing.T) {
	f := newFixture(t)

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)

	decision := f.moderation.Evaluate(context.Background(), message(100, 3, "anything at all"))
	assert.Equal(t, domain.ActionAllow, decision.Action)
	assert.Empty(t, f.transport.deleted)
}

func TestEvaluate_FirstMatchingRuleWins(t *testing.T) {
	f := newFixture(t)

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)
	_, err = f.keywords.AddRule(superAdminID, "spam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)
	_, err = f.keywords.AddRule(superAdminID, "scam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)

	decision := f.moderation.Evaluate(context.Background(), message(100, 3, "this spam is a scam"))
	assert.Equal(t, domain.ActionBlock, decision.Action)
	require.NotNil(t, decision.MatchedRule)
	assert.Equal(t, uint64(1), decision.MatchedRule.Seq)
}

func TestEvaluate_RedeliveryCountsAgain(t *testing.T) {
	f := newFixture(t)

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)
	_, err = f.keywords.AddRule(superAdminID, "spam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)

	msg := message(100, 3, "pure spam")
	f.moderation.Evaluate(context.Background(), msg)
	f.moderation.Evaluate(context.Background(), msg)

	counter, err := f.counters.GetCounter(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), counter.TotalMessagesSeen)
	assert.Equal(t, uint64(2), counter.TotalBlocked)
	assert.Len(t, f.transport.deleted, 2)
}

func TestEvaluate_WarnOnBlockDisabled(t *testing.T) {
	f := newFixture(t)

	quiet := New(f.admins, f.channels, f.keywords, f.counters, f.events, false)
	quiet.SetTransport(f.transport)

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)
	_, err = f.keywords.AddRule(superAdminID, "spam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)

	decision := quiet.Evaluate(context.Background(), message(100, 3, "pure spam"))
	assert.Equal(t, domain.ActionBlock, decision.Action)
	assert.Len(t, f.transport.deleted, 1)
	assert.Empty(t, f.transport.notified)
}

type erroringChannels struct{}

func (erroringChannels) GetChannel(int64) (*channelDomain.Channel, error) {
	return nil, fmt.Errorf("storage offline")
}

type erroringRules struct{}

func (erroringRules) ActiveRules() ([]*keywordDomain.KeywordRule, error) {
	return nil, fmt.Errorf("storage offline")
}

func (erroringRules) Match([]*keywordDomain.KeywordRule, string) (*keywordDomain.KeywordRule, bool) {
	return nil, false
}

func TestEvaluate_FailsOpenOnChannelLookupError(t *testing.T) {
	f := newFixture(t)

	broken := New(f.admins, erroringChannels{}, f.keywords, f.counters, f.events, true)
	broken.SetTransport(f.transport)

	decision := broken.Evaluate(context.Background(), message(100, 3, "pure spam"))
	assert.Equal(t, domain.ActionAllow, decision.Action)
	assert.Empty(t, f.transport.deleted)
}

func TestEvaluate_FailsOpenOnRuleLookupError(t *testing.T) {
	f := newFixture(t)

	_, err := f.channels.AddChannel(superAdminID, 100, "Movies")
	require.NoError(t, err)

	broken := New(f.admins, f.channels, erroringRules{}, f.counters, f.events, true)
	broken.SetTransport(f.transport)

	decision := broken.Evaluate(context.Background(), message(100, 3, "pure spam"))
	assert.Equal(t, domain.ActionAllow, decision.Action)
	assert.Empty(t, f.transport.deleted)
}

func TestEvaluate_FullModerationFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.admins.GrantAdmin(superAdminID, 2)
	require.NoError(t, err)
	_, err = f.channels.AddChannel(2, 100, "Movies")
	require.NoError(t, err)
	_, err = f.keywords.AddRule(2, "leaked-cam", keywordDomain.MatchModeSubstring)
	require.NoError(t, err)

	blocked := f.moderation.Evaluate(ctx, message(100, 3, "grab the leaked-cam rip"))
	assert.Equal(t, domain.ActionBlock, blocked.Action)

	allowed := f.moderation.Evaluate(ctx, message(100, 3, "great movie, loved it"))
	assert.Equal(t, domain.ActionAllow, allowed.Action)

	counter, err := f.counters.GetCounter(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), counter.TotalMessagesSeen)
	assert.Equal(t, uint64(1), counter.TotalBlocked)

	global, err := f.counters.GetGlobalCounter()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), global.TotalBlocked)
}
