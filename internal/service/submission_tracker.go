package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"exercise-forge/internal/cache"
	"exercise-forge/internal/config"
	"exercise-forge/internal/domain"
	"exercise-forge/internal/logger"
	"exercise-forge/internal/util"
)

const (
	DefaultSubmissionTTL = 30 * time.Minute

	latestField = "latest"
	stateField  = "state"
)

// SubmissionTracker remembers the latest submission per learner session so a result
// that arrives after a newer submission was made can be discarded.
type SubmissionTracker interface {
	// Begin mints a submission and records it as the session's latest.
	Begin(ctx context.Context, sessionID string, req domain.ExerciseRequest) (*domain.Submission, error)
	// Finish records the terminal state. It returns a SubmissionSuperseded error when
	// another submission was begun for the session in the meantime.
	Finish(ctx context.Context, sessionID string, sub *domain.Submission) error
}

type submissionTracker struct {
	cache domain.Cache
	ttl   time.Duration
	newID func() string
}

// NewSubmissionTracker returns a tracker backed by c. With a nil cache every session
// is untracked and no result is ever superseded.
func NewSubmissionTracker(c domain.Cache, cfg *config.Config) SubmissionTracker {
	ttl := DefaultSubmissionTTL
	if cfg != nil {
		ttl = cfg.ParseTTLStringOrDefault(cfg.Cache.SubmissionTTL, DefaultSubmissionTTL)
	}
	return &submissionTracker{cache: c, ttl: ttl, newID: util.NewULID}
}

func (t *submissionTracker) tracked(sessionID string) bool {
	return t.cache != nil && sessionID != ""
}

func (t *submissionTracker) Begin(ctx context.Context, sessionID string, req domain.ExerciseRequest) (*domain.Submission, error) {
	sub := domain.NewSubmission(t.newID(), req)
	if err := sub.Advance(domain.StateRequesting); err != nil {
		return nil, err
	}
	if !t.tracked(sessionID) {
		return sub, nil
	}

	key := cache.SessionKey(sessionID)
	l := logger.Get()
	if err := t.cache.HSet(ctx, key, latestField, sub.ID); err != nil {
		// Tracking is best effort; the submission itself proceeds.
		l.Warn("failed to record latest submission", zap.String("session", sessionID), zap.Error(err))
		return sub, nil
	}
	if err := t.cache.HSet(ctx, key, stateField, string(sub.State)); err != nil {
		l.Warn("failed to record submission state", zap.String("session", sessionID), zap.Error(err))
	}
	if err := t.cache.Expire(ctx, key, t.ttl); err != nil {
		l.Warn("failed to set session expiry", zap.String("session", sessionID), zap.Error(err))
	}
	return sub, nil
}

func (t *submissionTracker) Finish(ctx context.Context, sessionID string, sub *domain.Submission) error {
	if !t.tracked(sessionID) {
		return nil
	}

	key := cache.SessionKey(sessionID)
	l := logger.Get()
	latest, err := t.cache.HGet(ctx, key, latestField)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			l.Warn("failed to read latest submission", zap.String("session", sessionID), zap.Error(err))
		}
		return nil
	}

	if latest != sub.ID {
		l.Info("discarding superseded submission",
			zap.String("session", sessionID),
			zap.String("submission_id", sub.ID),
			zap.String("latest_id", latest),
			zap.String("state", string(sub.State)))
		return domain.NewSubmissionSupersededError(sub.ID)
	}

	if err := t.cache.HSet(ctx, key, stateField, string(sub.State)); err != nil {
		l.Warn("failed to record submission state", zap.String("session", sessionID), zap.Error(err))
	}
	return nil
}
