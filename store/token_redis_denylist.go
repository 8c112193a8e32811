package store

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"profile_service/domain"
)

type TokenRedisDenylist struct {
	cli    *redis.Client
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewTokenRedisDenylist(client *redis.Client, tracer trace.Tracer, logger *logrus.Logger) domain.TokenDenylist {
	return &TokenRedisDenylist{
		cli:    client,
		tracer: tracer,
		logger: logger,
	}
}

func (d *TokenRedisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ctx, span := d.tracer.Start(ctx, "TokenRedisDenylist.Revoke")
	defer span.End()

	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := d.cli.WithContext(ctx).Set(constructRevokedKey(tokenID), "1", ttl).Err(); err != nil {
		span.SetStatus(codes.Error, "Error posting revoked token")
		d.logger.Errorf("redis set error: %s", err)
		return err
	}
	return nil
}

func (d *TokenRedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ctx, span := d.tracer.Start(ctx, "TokenRedisDenylist.IsRevoked")
	defer span.End()

	count, err := d.cli.WithContext(ctx).Exists(constructRevokedKey(tokenID)).Result()
	if err != nil {
		span.SetStatus(codes.Error, "Error checking revoked token")
		d.logger.Errorf("redis exists error: %s", err)
		return false, err
	}
	return count == 1, nil
}
