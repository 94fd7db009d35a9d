package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"exercise-forge/internal/cache"
	"exercise-forge/internal/config"
	"exercise-forge/internal/domain"
	"exercise-forge/internal/logger"
	"exercise-forge/internal/prompt"
	"exercise-forge/internal/util"
)

// CompletionService turns an exercise request into the vendor's raw message content.
// It is what the proxy endpoint serves.
type CompletionService interface {
	Complete(ctx context.Context, req domain.ExerciseRequest) (string, error)
}

type completionService struct {
	provider    domain.CompletionProvider
	cache       domain.Cache
	models      prompt.Models
	temperature float64
	ttl         time.Duration
	sfGroup     singleflight.Group
}

// NewCompletionService wires the vendor provider. cache may be nil; the completion
// cache is only used when cache.completion_ttl is positive.
func NewCompletionService(provider domain.CompletionProvider, c domain.Cache, cfg *config.Config) CompletionService {
	s := &completionService{provider: provider, cache: c}
	if cfg != nil {
		s.models = prompt.Models{MultipleChoice: cfg.Vendor.MultipleChoice, GapFill: cfg.Vendor.GapFill}
		s.temperature = cfg.Vendor.Temperature
		if cfg.Cache.Enabled {
			s.ttl = cfg.ParseTTLStringOrDefault(cfg.Cache.CompletionTTL, 0)
		}
	}
	return s
}

func (s *completionService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *completionService) Complete(ctx context.Context, req domain.ExerciseRequest) (string, error) {
	payload, err := prompt.Build(req, s.models)
	if err != nil {
		return "", err
	}
	if s.temperature > 0 {
		payload.Temperature = s.temperature
	}

	if !s.cacheEnabled() {
		return s.provider.Complete(ctx, payload)
	}

	l := logger.Get()
	cacheKey := cache.CompletionKey(string(req.Kind), util.HashString(req.KnowledgePoint), req.DesiredCount)

	cached, err := s.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		l.Debug("completion cache hit", zap.String("key", cacheKey))
		return cached, nil
	case !errors.Is(err, domain.ErrCacheMiss):
		l.Warn("completion cache read failed", zap.String("key", cacheKey), zap.Error(err))
	}

	res, err, shared := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		content, err := s.provider.Complete(ctx, payload)
		if err != nil {
			return nil, err
		}
		// Only content that will parse is worth replaying.
		if _, perr := domain.ParseRawModelPayload(util.StripCodeFences(content)); perr == nil {
			if err := s.cache.Set(ctx, cacheKey, content, s.ttl); err != nil {
				l.Warn("completion cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
		return content, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		l.Debug("completion shared with concurrent request", zap.String("key", cacheKey))
	}

	content, ok := res.(string)
	if !ok {
		return "", domain.NewInternalError(fmt.Sprintf("unexpected completion type %T", res), nil)
	}
	return content, nil
}

// localSubmitter lets the exercise API generate in-process instead of calling its
// own proxy endpoint over HTTP.
type localSubmitter struct {
	completions CompletionService
}

func NewLocalSubmitter(completions CompletionService) domain.ExerciseSubmitter {
	return &localSubmitter{completions: completions}
}

func (l *localSubmitter) Submit(ctx context.Context, req domain.ExerciseRequest) (domain.RawModelPayload, error) {
	content, err := l.completions.Complete(ctx, req)
	if err != nil {
		return domain.RawModelPayload{}, err
	}
	return domain.ParseRawModelPayload(util.StripCodeFences(content))
}
