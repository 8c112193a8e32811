package application

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"profile_service/domain"
	"profile_service/errors"
)

type LoadStatus int

const (
	LoadFound LoadStatus = iota
	LoadNotFound
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case LoadFound:
		return "found"
	case LoadNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// LoadResult always carries a usable profile: on NotFound and Failed its
// accommodations are an empty set. Err is set only for LoadFailed.
type LoadResult struct {
	Status  LoadStatus
	Profile domain.UserProfile
	Err     error
}

type ProfileService struct {
	store   domain.ProfileStore
	cache   domain.ProfileCache
	cb      *gobreaker.CircuitBreaker
	loads   singleflight.Group
	writes  atomic.Uint64
	metrics *Metrics
	tracer  trace.Tracer
	logger  *logrus.Logger
	timeout time.Duration
}

// NewProfileService wires the gateway. cache may be nil.
func NewProfileService(store domain.ProfileStore, cache domain.ProfileCache, metrics *Metrics, tracer trace.Tracer, logger *logrus.Logger, timeout time.Duration) *ProfileService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ProfileService{
		store:   store,
		cache:   cache,
		cb:      CircuitBreaker("profileStore", logger),
		metrics: metrics,
		tracer:  tracer,
		logger:  logger,
		timeout: timeout,
	}
}

func (service *ProfileService) Load(ctx context.Context, userID string) LoadResult {
	ctx, span := service.tracer.Start(ctx, "ProfileService.Load")
	defer span.End()

	start := time.Now()
	result := service.load(ctx, span, userID)
	service.metrics.RecordLoad(result.Status, time.Since(start))
	if result.Status == LoadFailed {
		span.SetStatus(codes.Error, result.Err.Error())
		service.logger.WithField("profile", userID).Errorf("Error loading profile: %v", result.Err)
	}
	return result
}

func (service *ProfileService) load(ctx context.Context, span trace.Span, userID string) LoadResult {
	if service.cache != nil {
		cached, err := service.cache.Get(ctx, userID)
		if err == nil {
			span.AddEvent("cache hit")
			return found(cached)
		}
		if !errors.Is(err, errors.ErrCacheMiss) {
			service.logger.Warnf("Profile cache unavailable: %v", err)
		}
	}

	generation := service.writes.Load()
	// Concurrent loads for one user share a single store round trip; the
	// shared call must not die with whichever caller arrived first.
	ch := service.loads.DoChan(userID, func() (interface{}, error) {
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), service.timeout)
		defer cancel()
		return service.cb.Execute(func() (interface{}, error) {
			return service.store.GetProfile(storeCtx, userID)
		})
	})

	select {
	case <-ctx.Done():
		return failed(userID, ctx.Err())
	case res := <-ch:
		if errors.Is(res.Err, errors.ErrProfileNotFound) {
			return LoadResult{
				Status:  LoadNotFound,
				Profile: domain.UserProfile{ID: userID, Accommodations: domain.NewSelectionSet()},
			}
		}
		if res.Err != nil {
			return failed(userID, res.Err)
		}
		profile, ok := res.Val.(*domain.UserProfile)
		if !ok || profile == nil {
			return failed(userID, fmt.Errorf("unexpected store result %T", res.Val))
		}
		if service.cache != nil && service.writes.Load() == generation {
			service.fill(ctx, userID, profile, generation)
		}
		return found(profile)
	}
}

// fill caches a loaded profile. A write that lands between the generation
// check and Set may already have run its invalidation, so the entry is
// dropped again when the generation moved.
func (service *ProfileService) fill(ctx context.Context, userID string, profile *domain.UserProfile, generation uint64) {
	if err := service.cache.Set(ctx, profile); err != nil {
		service.logger.Warnf("Unable to cache profile %s: %v", userID, err)
		return
	}
	if service.writes.Load() != generation {
		service.invalidate(ctx, userID)
	}
}

func (service *ProfileService) invalidate(ctx context.Context, userID string) {
	if err := service.cache.Invalidate(ctx, userID); err != nil {
		service.logger.Warnf("Unable to invalidate cached profile %s: %v", userID, err)
	}
}

func found(profile *domain.UserProfile) LoadResult {
	clone := profile.Clone()
	return LoadResult{Status: LoadFound, Profile: clone}
}

func failed(userID string, err error) LoadResult {
	return LoadResult{
		Status:  LoadFailed,
		Profile: domain.UserProfile{ID: userID, Accommodations: domain.NewSelectionSet()},
		Err:     err,
	}
}

// Save replaces the whole accommodations field. The caller's set is copied
// before the write and never modified.
func (service *ProfileService) Save(ctx context.Context, userID string, set domain.SelectionSet) error {
	ctx, span := service.tracer.Start(ctx, "ProfileService.Save")
	defer span.End()

	if err := set.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	snapshot := set.Clone()

	err := service.write(ctx, userID, "accommodations", func(storeCtx context.Context) error {
		return service.store.UpdateAccommodations(storeCtx, userID, snapshot)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	service.logger.WithField("profile", userID).Infof("Saved %d accommodations", snapshot.Count())
	return nil
}

func (service *ProfileService) ChangeUsername(ctx context.Context, userID string, username string) error {
	ctx, span := service.tracer.Start(ctx, "ProfileService.ChangeUsername")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		span.SetStatus(codes.Error, errors.ErrEmptyUsername.Error())
		return errors.ErrEmptyUsername
	}

	err := service.write(ctx, userID, "username", func(storeCtx context.Context) error {
		return service.store.UpdateUsername(storeCtx, userID, username)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (service *ProfileService) write(ctx context.Context, userID, field string, update func(context.Context) error) error {
	storeCtx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	start := time.Now()
	_, err := service.cb.Execute(func() (interface{}, error) {
		return nil, update(storeCtx)
	})
	service.metrics.RecordWrite(field, time.Since(start), err)

	// Whatever the outcome, later loads must go back to the store. Forget
	// runs before the generation moves so a load that sees the new
	// generation cannot join a read started before the write.
	service.loads.Forget(userID)
	service.writes.Add(1)
	if service.cache != nil {
		service.invalidate(ctx, userID)
	}

	if err != nil {
		service.logger.WithField("profile", userID).Errorf("Error updating %s: %v", field, err)
		return fmt.Errorf("update %s: %w", field, err)
	}
	return nil
}
