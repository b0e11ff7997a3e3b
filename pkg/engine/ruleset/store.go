package ruleset

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/sirupsen/logrus"
)

// Store publishes the active rule snapshot. Evaluations read the current
// snapshot pointer once and keep it for their full duration; administrative
// edits take effect through Reload, which builds a fresh snapshot and swaps
// the pointer atomically. A reload that fails to compile leaves the
// previous snapshot in place.
type Store struct {
	logger   logrus.FieldLogger
	repo     rule.Repository
	snapshot atomic.Pointer[Snapshot]
	version  atomic.Uint64
}

func NewStore(logger logrus.FieldLogger, repo rule.Repository) *Store {
	s := &Store{
		logger: logger,
		repo:   repo,
	}
	s.snapshot.Store(&Snapshot{})
	return s
}

// Current returns the active snapshot. Never nil.
func (s *Store) Current() *Snapshot {
	return s.snapshot.Load()
}

// Reload fetches the enabled rules, compiles them and swaps the active
// snapshot.
func (s *Store) Reload(ctx context.Context) error {
	rules, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list enabled rules: %w", err)
	}

	version := s.version.Add(1)
	snapshot, err := NewSnapshot(version, rules)
	if err != nil {
		return fmt.Errorf("failed to build rule snapshot: %w", err)
	}

	s.snapshot.Store(snapshot)
	s.logger.WithFields(logrus.Fields{
		"version": snapshot.Version,
		"rules":   len(snapshot.Rules),
	}).Info("rule snapshot reloaded")

	return nil
}
