package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"profile_service/domain"
	"profile_service/errors"
)

type ProfileRedisCache struct {
	cli    *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewProfileRedisCache(client *redis.Client, ttl time.Duration, tracer trace.Tracer, logger *logrus.Logger) domain.ProfileCache {
	return &ProfileRedisCache{
		cli:    client,
		ttl:    ttl,
		tracer: tracer,
		logger: logger,
	}
}

type cachedProfile struct {
	ID             string      `json:"id"`
	Username       string      `json:"username,omitempty"`
	Accommodations interface{} `json:"accommodations,omitempty"`
}

func (pc *ProfileRedisCache) Get(ctx context.Context, id string) (*domain.UserProfile, error) {
	ctx, span := pc.tracer.Start(ctx, "ProfileRedisCache.Get")
	defer span.End()

	value, err := pc.cli.WithContext(ctx).Get(constructProfileKey(id)).Bytes()
	if err == redis.Nil {
		return nil, errors.ErrCacheMiss
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Errorf("redis get error: %v", err)
		return nil, err
	}

	var cached cachedProfile
	if err := json.Unmarshal(value, &cached); err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Errorf("Corrupt cached profile %s: %v", id, err)
		return nil, errors.ErrCacheMiss
	}
	set, _ := domain.DecodeSelectionSet(cached.Accommodations)

	pc.logger.Debugf("Cache hit - get profile %s", id)
	return &domain.UserProfile{
		ID:             cached.ID,
		Username:       cached.Username,
		Accommodations: set,
	}, nil
}

func (pc *ProfileRedisCache) Set(ctx context.Context, profile *domain.UserProfile) error {
	ctx, span := pc.tracer.Start(ctx, "ProfileRedisCache.Set")
	defer span.End()

	value, err := json.Marshal(cachedProfile{
		ID:             profile.ID,
		Username:       profile.Username,
		Accommodations: profile.Accommodations,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := pc.cli.WithContext(ctx).Set(constructProfileKey(profile.ID), value, pc.ttl).Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Errorf("redis set error: %v", err)
		return err
	}
	return nil
}

func (pc *ProfileRedisCache) Invalidate(ctx context.Context, id string) error {
	ctx, span := pc.tracer.Start(ctx, "ProfileRedisCache.Invalidate")
	defer span.End()

	if err := pc.cli.WithContext(ctx).Del(constructProfileKey(id)).Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Errorf("redis del error: %v", err)
		return err
	}
	return nil
}
