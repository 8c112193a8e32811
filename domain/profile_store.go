package domain

import (
	"context"
	"time"
)

// ProfileStore is the remote single-record store. GetProfile returns
// errors.ErrProfileNotFound when no record exists for id. Updates replace
// only the named field and never create a record.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*UserProfile, error)
	UpdateAccommodations(ctx context.Context, id string, set SelectionSet) error
	UpdateUsername(ctx context.Context, id string, username string) error
}

// ProfileCache is a read-through cache in front of ProfileStore. Get returns
// errors.ErrCacheMiss when nothing is cached.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*UserProfile, error)
	Set(ctx context.Context, profile *UserProfile) error
	Invalidate(ctx context.Context, id string) error
}

// TokenDenylist remembers signed-out tokens until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
