package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"exercise-forge/internal/domain"
)

// --- MockCompletionProvider ---
type MockCompletionProvider struct {
	mock.Mock
}

func (m *MockCompletionProvider) Complete(ctx context.Context, payload domain.ChatPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionProvider) Name() string {
	return "mock"
}

// --- MockExerciseSubmitter ---
type MockExerciseSubmitter struct {
	mock.Mock
}

func (m *MockExerciseSubmitter) Submit(ctx context.Context, req domain.ExerciseRequest) (domain.RawModelPayload, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.RawModelPayload), args.Error(1)
}

// --- MockSubmissionTracker ---
type MockSubmissionTracker struct {
	mock.Mock
}

func (m *MockSubmissionTracker) Begin(ctx context.Context, sessionID string, req domain.ExerciseRequest) (*domain.Submission, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionTracker) Finish(ctx context.Context, sessionID string, sub *domain.Submission) error {
	args := m.Called(ctx, sessionID, sub)
	return args.Error(0)
}

// memoryCache is an in-process domain.Cache for tests that care about state, not calls.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	hashes map[string]map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		values: map[string]string{},
		hashes: map[string]map[string]string{},
		ttls:   map[string]time.Duration{},
	}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.values[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	c.ttls[key] = expiration
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	delete(c.hashes, key)
	return c.err
}

func (c *memoryCache) Ping(context.Context) error {
	return c.err
}

func (c *memoryCache) HGet(_ context.Context, key, field string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.hashes[key][field]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) HSet(_ context.Context, key string, field string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.hashes[key] == nil {
		c.hashes[key] = map[string]string{}
	}
	c.hashes[key][field] = value
	return nil
}

func (c *memoryCache) Expire(_ context.Context, key string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.ttls[key] = expiration
	return nil
}
