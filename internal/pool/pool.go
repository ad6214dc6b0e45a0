// Package pool enforces the fixed capacity on persisted generated
// recipes. Admission is the only mutating, capacity-bounded operation in
// the resolution subsystem.
package pool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/forkful/backend/internal/dedupe"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/store"
)

// ErrDuplicateTitle is the expected outcome when a candidate's
// normalized title already exists in the pool. It is a conflict, not a
// failure of the subsystem.
var ErrDuplicateTitle = errors.New("a generated recipe with this title already exists")

// Manager admits generated recipes into the bounded pool.
type Manager struct {
	store    *store.Store
	capacity int
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Manager with the default capacity.
func New(s *store.Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:    s,
		capacity: models.GeneratedPoolCapacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Capacity returns the maximum pool size.
func (m *Manager) Capacity() int {
	return m.capacity
}

// Remaining returns how many candidates could be inserted without
// evicting anything.
func (m *Manager) Remaining(ctx context.Context) (int, error) {
	count, err := m.store.CountGenerated(ctx)
	if err != nil {
		return 0, err
	}
	if count >= m.capacity {
		return 0, nil
	}
	return m.capacity - count, nil
}

// Titles returns the set of normalized titles currently held in the
// pool, so callers screening many candidates read the pool once.
func (m *Manager) Titles(ctx context.Context) (map[string]struct{}, error) {
	entries, err := m.store.ListGenerated(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		titles[dedupe.Key(e.Title)] = struct{}{}
	}
	return titles, nil
}

// HasTitle reports whether the pool already holds an entry with the
// candidate's normalized title.
func (m *Manager) HasTitle(ctx context.Context, title string) (bool, error) {
	titles, err := m.Titles(ctx)
	if err != nil {
		return false, err
	}
	_, ok := titles[dedupe.Key(title)]
	return ok, nil
}

// admitRetryInterval spaces out retries of an admission that lost a
// serialization conflict.
const admitRetryInterval = 10 * time.Millisecond

// Admit inserts a candidate into the pool, evicting the single oldest
// entry when the pool is at capacity. The read-evict-insert sequence
// runs in one serializable store transaction so concurrent admissions
// cannot transiently exceed capacity or double-evict; an admission that
// loses the serialization conflict is retried from the top.
func (m *Manager) Admit(ctx context.Context, candidate *models.Recipe) (*models.Recipe, error) {
	op := func() error {
		err := m.admit(ctx, candidate)
		if err != nil && !store.IsSerializationFailure(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(admitRetryInterval), 2), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (m *Manager) admit(ctx context.Context, candidate *models.Recipe) error {
	return m.store.Transaction(ctx, func(tx *store.Store) error {
		entries, err := tx.ListGenerated(ctx)
		if err != nil {
			return err
		}

		key := dedupe.Key(candidate.Title)
		for _, e := range entries {
			if dedupe.Key(e.Title) == key {
				return ErrDuplicateTitle
			}
		}

		if len(entries) >= m.capacity {
			oldest := entries[0]
			if err := tx.Delete(ctx, oldest.ID); err != nil {
				return fmt.Errorf("failed to evict oldest pool entry: %w", err)
			}
			m.logger.Info("evicted oldest generated recipe",
				zap.String("id", oldest.ID),
				zap.String("title", oldest.Title),
				zap.Time("created_at", oldest.CreatedAt),
			)
		}

		candidate.Provenance = models.ProvenanceGenerated
		candidate.CreatedAt = m.now()
		return tx.Insert(ctx, candidate)
	})
}
