package service

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	adminDomain "github.com/mraprguild/guardbot/internal/modules/admin/domain"
	"github.com/mraprguild/guardbot/internal/modules/keyword/domain"
	"github.com/mraprguild/guardbot/internal/modules/keyword/repository"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
	"github.com/samber/oops"
)

// RoleResolver resolves a user to an authorization role
type RoleResolver interface {
	RoleOf(userID int64) (adminDomain.Role, error)
}

// Service owns the keyword rule set. An empty rule set is a valid state and
// means filtering is disabled.
type Service struct {
	repo  repository.Repository
	roles RoleResolver

	mu sync.Mutex // serializes rule mutations

	cacheMu sync.RWMutex
	cache   map[uint64]*regexp.Regexp
}

// New creates a new keyword service
func New(repo repository.Repository, roles RoleResolver) *Service {
	return &Service{
		repo:  repo,
		roles: roles,
		cache: make(map[uint64]*regexp.Regexp),
	}
}

// AddRule creates a keyword rule. Regex patterns are compiled here; a pattern
// that does not compile is rejected and never reaches evaluation.
func (s *Service) AddRule(actorID int64, pattern string, mode domain.MatchMode) (*domain.KeywordRule, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, oops.With("pattern", pattern).Wrap(apperrors.ErrInvalidPattern)
	}

	var compiled *regexp.Regexp
	if mode == domain.MatchModeRegex {
		var err error
		compiled, err = regexp.Compile(pattern)
		if err != nil {
			return nil, oops.With("pattern", pattern, "compile_error", err.Error()).Wrap(apperrors.ErrInvalidPattern)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.repo.GetAllRules()
	if err != nil {
		return nil, err
	}

	var maxSeq uint64
	for _, rule := range rules {
		if rule.MatchMode == mode && strings.EqualFold(rule.Pattern, pattern) {
			return nil, oops.With("pattern", pattern, "match_mode", mode).Wrap(apperrors.ErrAlreadyRegistered)
		}
		if rule.Seq > maxSeq {
			maxSeq = rule.Seq
		}
	}

	rule := &domain.KeywordRule{
		Seq:       maxSeq + 1,
		Pattern:   pattern,
		MatchMode: mode,
		AddedBy:   actorID,
		AddedAt:   time.Now(),
	}
	if err := s.repo.SaveRule(rule); err != nil {
		return nil, err
	}

	if compiled != nil {
		s.cacheMu.Lock()
		s.cache[rule.Seq] = compiled
		s.cacheMu.Unlock()
	}

	slog.Info("Keyword rule added", "pattern", pattern, "match_mode", mode, "added_by", actorID)
	return rule, nil
}

// RemoveRule deletes the rule matching (pattern, mode)
func (s *Service) RemoveRule(actorID int64, pattern string, mode domain.MatchMode) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}

	pattern = strings.TrimSpace(pattern)

	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.repo.GetAllRules()
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if rule.MatchMode == mode && strings.EqualFold(rule.Pattern, pattern) {
			if _, err := s.repo.DeleteRule(rule.Seq); err != nil {
				return err
			}
			s.cacheMu.Lock()
			delete(s.cache, rule.Seq)
			s.cacheMu.Unlock()
			slog.Info("Keyword rule removed", "pattern", pattern, "match_mode", mode, "removed_by", actorID)
			return nil
		}
	}

	return oops.With("pattern", pattern, "match_mode", mode).Wrap(apperrors.ErrNotFound)
}

// ActiveRules returns the rule set in evaluation order. Callers hold the
// returned slice as a snapshot; later mutations are not visible through it.
func (s *Service) ActiveRules() ([]*domain.KeywordRule, error) {
	return s.repo.GetAllRules()
}

// Match evaluates the rules in order and returns the first match
func (s *Service) Match(rules []*domain.KeywordRule, text string) (*domain.KeywordRule, bool) {
	for _, rule := range rules {
		if s.matches(rule, text) {
			return rule, true
		}
	}
	return nil, false
}

func (s *Service) matches(rule *domain.KeywordRule, text string) bool {
	switch rule.MatchMode {
	case domain.MatchModeSubstring:
		return strings.Contains(strings.ToLower(text), strings.ToLower(rule.Pattern))
	case domain.MatchModeWholeWord:
		return matchWholeWord(text, rule.Pattern)
	case domain.MatchModeRegex:
		re := s.compiled(rule)
		return re != nil && re.MatchString(text)
	}
	return false
}

// compiled returns the cached regex for a rule, compiling after a restart.
// Creation-time validation makes a compile failure here a corrupted record;
// the rule is skipped and logged rather than aborting evaluation.
func (s *Service) compiled(rule *domain.KeywordRule) *regexp.Regexp {
	s.cacheMu.RLock()
	re, ok := s.cache[rule.Seq]
	s.cacheMu.RUnlock()
	if ok {
		return re
	}

	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		slog.Error("Skipping keyword rule with uncompilable pattern", "seq", rule.Seq, "pattern", rule.Pattern, "error", err)
		return nil
	}

	s.cacheMu.Lock()
	s.cache[rule.Seq] = re
	s.cacheMu.Unlock()
	return re
}

func (s *Service) requireAdmin(actorID int64) error {
	role, err := s.roles.RoleOf(actorID)
	if err != nil {
		return err
	}
	if role == adminDomain.RoleNone {
		return oops.With("actor_id", actorID).Wrap(apperrors.ErrPermissionDenied)
	}
	return nil
}

// matchWholeWord reports a case-insensitive occurrence of pattern bounded by
// non-alphanumeric runes, so "art" does not match "party".
func matchWholeWord(text, pattern string) bool {
	t := strings.ToLower(text)
	p := strings.ToLower(pattern)
	if p == "" {
		return false
	}

	for from := 0; from+len(p) <= len(t); {
		idx := strings.Index(t[from:], p)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(p)
		if boundary(t, start, -1) && boundary(t, end, 1) {
			return true
		}
		from = start + 1
	}
	return false
}

// boundary checks the rune adjacent to position i (dir -1 looks left, 1 right)
func boundary(s string, i int, dir int) bool {
	var r rune
	if dir < 0 {
		if i == 0 {
			return true
		}
		r, _ = utf8.DecodeLastRuneInString(s[:i])
	} else {
		if i >= len(s) {
			return true
		}
		r, _ = utf8.DecodeRuneInString(s[i:])
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
