package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"cafelist/cache"
	"cafelist/model"

	"go.uber.org/zap"
)

// CafeStore is the persistence the service needs; *repository.CafeRepo
// satisfies it.
type CafeStore interface {
	List(ctx context.Context) ([]model.Cafe, error)
	Create(ctx context.Context, cafe *model.Cafe) error
	CreateBatch(ctx context.Context, cafes []model.Cafe) error
	Delete(ctx context.Context, id uint) error
}

// CafeService fronts the store with an optional listing cache. The cache
// is best effort: its failures are logged and the store is used instead.
//
// Cached listings are keyed by a generation counter that every write
// increments, so a listing read before a write can only land under a
// generation nobody reads any more.
type CafeService struct {
	store  CafeStore
	kv     cache.KVStore
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

func NewCafeService(store CafeStore, kv cache.KVStore, prefix string, ttl time.Duration, logger *zap.Logger) *CafeService {
	if kv == nil {
		kv = cache.NopStore{}
	}
	if prefix == "" {
		prefix = "cafelist"
	}
	return &CafeService{
		store:  store,
		kv:     kv,
		prefix: prefix + ":cafes",
		ttl:    ttl,
		logger: logger,
	}
}

// List returns all cafes, from cache when possible.
func (s *CafeService) List(ctx context.Context) ([]model.Cafe, error) {
	// the generation must be read before the store
	key, err := s.listKey(ctx)
	if err != nil {
		s.logger.Warn("cafe cache generation read failed", zap.Error(err))
		return s.store.List(ctx)
	}

	if raw, err := s.kv.Get(ctx, key); err == nil {
		var cafes []model.Cafe
		if err := json.Unmarshal([]byte(raw), &cafes); err == nil {
			return cafes, nil
		}
		s.logger.Warn("discarding unreadable cafe cache", zap.String("key", key))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cafe cache read failed", zap.Error(err))
	}

	cafes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cafes); err == nil {
		if err := s.kv.Set(ctx, key, string(data), s.ttl); err != nil {
			s.logger.Warn("cafe cache write failed", zap.Error(err))
		}
	}
	return cafes, nil
}

// Add stores a new cafe.
func (s *CafeService) Add(ctx context.Context, cafe *model.Cafe) error {
	if err := s.store.Create(ctx, cafe); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("cafe added", zap.Uint("cafe_id", cafe.ID), zap.String("name", cafe.Name))
	return nil
}

// Import stores a batch of cafes atomically and returns how many were added.
func (s *CafeService) Import(ctx context.Context, cafes []model.Cafe) (int, error) {
	if err := s.store.CreateBatch(ctx, cafes); err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	s.logger.Info("cafes imported", zap.Int("count", len(cafes)))
	return len(cafes), nil
}

// Delete removes one cafe by id.
func (s *CafeService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("cafe deleted", zap.Uint("cafe_id", id))
	return nil
}

// listKey is the cache key for the current generation, e.g. "cafelist:cafes:3".
func (s *CafeService) listKey(ctx context.Context) (string, error) {
	gen, err := s.kv.Get(ctx, s.generationKey())
	if errors.Is(err, cache.ErrCacheMiss) {
		gen = "0"
	} else if err != nil {
		return "", err
	}
	return s.prefix + ":" + gen, nil
}

func (s *CafeService) generationKey() string {
	return s.prefix + ":gen"
}

func (s *CafeService) invalidate(ctx context.Context) {
	gen, err := s.kv.Incr(ctx, s.generationKey())
	if err != nil {
		s.logger.Warn("cafe cache invalidation failed", zap.Error(err))
		return
	}
	// the previous generation is unreachable now; drop it early
	if gen > 0 {
		_ = s.kv.Del(ctx, s.prefix+":"+strconv.FormatInt(gen-1, 10))
	}
}
