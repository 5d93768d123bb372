package service

import (
	"testing"

	adminRepository "github.com/mraprguild/guardbot/internal/modules/admin/repository"
	adminService "github.com/mraprguild/guardbot/internal/modules/admin/service"
	"github.com/mraprguild/guardbot/internal/modules/keyword/domain"
	"github.com/mraprguild/guardbot/internal/modules/keyword/repository"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const superAdminID int64 = 1

func newService(t *testing.T) *Service {
	t.Helper()

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	admins := adminService.New(adminRepository.NewStoreStorage(store))
	require.NoError(t, admins.EnsureSuperAdmin(superAdminID))

	return New(repository.NewStoreStorage(store), admins)
}

func TestAddRule(t *testing.T) {
	svc := newService(t)

	rule, err := svc.AddRule(superAdminID, "spam", domain.MatchModeSubstring)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rule.Seq)
	assert.Equal(t, "spam", rule.Pattern)
	assert.Equal(t, domain.MatchModeSubstring, rule.MatchMode)
}

func TestAddRule_RequiresAdmin(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddRule(99, "spam", domain.MatchModeSubstring)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAddRule_EmptyPattern(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddRule(superAdminID, "   ", domain.MatchModeSubstring)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPattern)
}

func TestAddRule_InvalidRegex(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddRule(superAdminID, "[unclosed", domain.MatchModeRegex)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPattern)

	rules, err := svc.ActiveRules()
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestAddRule_Duplicate(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddRule(superAdminID, "spam", domain.MatchModeSubstring)
	require.NoError(t, err)

	_, err = svc.AddRule(superAdminID, "SPAM", domain.MatchModeSubstring)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

	// Same pattern in a different mode is a distinct rule.
	_, err = svc.AddRule(superAdminID, "spam", domain.MatchModeWholeWord)
	assert.NoError(t, err)
}

func TestActiveRules_InsertionOrder(t *testing.T) {
	svc := newService(t)

	for _, pattern := range []string{"zeta", "alpha", "mid"} {
		_, err := svc.AddRule(superAdminID, pattern, domain.MatchModeSubstring)
		require.NoError(t, err)
	}

	rules, err := svc.ActiveRules()
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "zeta", rules[0].Pattern)
	assert.Equal(t, "alpha", rules[1].Pattern)
	assert.Equal(t, "mid", rules[2].Pattern)
}

func TestRemoveRule(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddRule(superAdminID, "spam", domain.MatchModeSubstring)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveRule(superAdminID, "spam", domain.MatchModeSubstring))

	rules, err := svc.ActiveRules()
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestRemoveRule_Unknown(t *testing.T) {
	svc := newService(t)

	err := svc.RemoveRule(superAdminID, "ghost", domain.MatchModeSubstring)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMatch_Substring(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddRule(superAdminID, "leaked-cam", domain.MatchModeSubstring)
	require.NoError(t, err)

	rules, err := svc.ActiveRules()
	require.NoError(t, err)

	rule, ok := svc.Match(rules, "get the LEAKED-CAM print here")
	require.True(t, ok)
	assert.Equal(t, "leaked-cam", rule.Pattern)

	_, ok = svc.Match(rules, "a perfectly fine message")
	assert.False(t, ok)
}

func TestMatch_FirstRuleWins(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddRule(superAdminID, "spam", domain.MatchModeSubstring)
	require.NoError(t, err)
	_, err = svc.AddRule(superAdminID, "scam", domain.MatchModeSubstring)
	require.NoError(t, err)

	rules, err := svc.ActiveRules()
	require.NoError(t, err)

	rule, ok := svc.Match(rules, "this spam is also a scam")
	require.True(t, ok)
	assert.Equal(t, uint64(1), rule.Seq)
}

func TestMatch_WholeWord(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddRule(superAdminID, "art", domain.MatchModeWholeWord)
	require.NoError(t, err)

	rules, err := svc.ActiveRules()
	require.NoError(t, err)

	_, ok := svc.Match(rules, "join the party tonight")
	assert.False(t, ok)

	_, ok = svc.Match(rules, "modern Art is on display")
	assert.True(t, ok)

	_, ok = svc.Match(rules, "art")
	assert.True(t, ok)

	_, ok = svc.Match(rules, "(art)")
	assert.True(t, ok)
}

func TestMatch_Regex(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddRule(superAdminID, `https?://[^\s]+`, domain.MatchModeRegex)
	require.NoError(t, err)

	rules, err := svc.ActiveRules()
	require.NoError(t, err)

	_, ok := svc.Match(rules, "download at https://example.com/x")
	assert.True(t, ok)

	_, ok = svc.Match(rules, "no links here")
	assert.False(t, ok)
}

func TestMatch_RegexRecompilesAfterRestart(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	admins := adminService.New(adminRepository.NewStoreStorage(store))
	require.NoError(t, admins.EnsureSuperAdmin(superAdminID))

	repo := repository.NewStoreStorage(store)
	svc := New(repo, admins)

	_, err = svc.AddRule(superAdminID, `free\s+money`, domain.MatchModeRegex)
	require.NoError(t, err)

	// A fresh service over the same repository starts with a cold cache.
	restarted := New(repo, admins)
	rules, err := restarted.ActiveRules()
	require.NoError(t, err)

	_, ok := restarted.Match(rules, "FREE  money inside")
	assert.False(t, ok)

	_, ok = restarted.Match(rules, "free  money inside")
	assert.True(t, ok)
}

func TestMatch_EmptyRuleSet(t *testing.T) {
	svc := newService(t)

	rules, err := svc.ActiveRules()
	require.NoError(t, err)

	_, ok := svc.Match(rules, "anything goes")
	assert.False(t, ok)
}
