package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"profile_service/domain"
	"profile_service/errors"
)

type memoryRecord struct {
	Username       string          `json:"username,omitempty"`
	Accommodations json.RawMessage `json:"accommodations,omitempty"`
}

// ProfileMemoryStore keeps profile records as serialized JSON so reads go
// through the same decoding boundary as the remote store.
type ProfileMemoryStore struct {
	mu               sync.RWMutex
	records          map[string]memoryRecord
	provisionOnWrite bool
	logger           *logrus.Logger
}

// NewProfileMemoryStore returns an in-process store. With provisionOnWrite
// an update for an unknown id creates the record, standing in for the
// identity provider's sign-up hook.
func NewProfileMemoryStore(provisionOnWrite bool, logger *logrus.Logger) *ProfileMemoryStore {
	return &ProfileMemoryStore{
		records:          make(map[string]memoryRecord),
		provisionOnWrite: provisionOnWrite,
		logger:           logger,
	}
}

// Seed creates or replaces a record.
func (store *ProfileMemoryStore) Seed(profile domain.UserProfile) error {
	record := memoryRecord{Username: profile.Username}
	if profile.Accommodations != nil {
		raw, err := json.Marshal(profile.Accommodations)
		if err != nil {
			return err
		}
		record.Accommodations = raw
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	store.records[profile.ID] = record
	return nil
}

// SeedRaw stores an arbitrary accommodations document, bypassing typing.
func (store *ProfileMemoryStore) SeedRaw(id, username string, accommodations json.RawMessage) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.records[id] = memoryRecord{Username: username, Accommodations: accommodations}
}

func (store *ProfileMemoryStore) GetProfile(_ context.Context, id string) (*domain.UserProfile, error) {
	store.mu.RLock()
	record, ok := store.records[id]
	store.mu.RUnlock()
	if !ok {
		return nil, errors.ErrProfileNotFound
	}

	var loose interface{}
	if len(record.Accommodations) > 0 {
		if err := json.Unmarshal(record.Accommodations, &loose); err != nil {
			return nil, err
		}
	}
	set, report := domain.DecodeSelectionSet(loose)
	if !report.Clean() && store.logger != nil {
		store.logger.WithField("profile", id).Warnf("Sanitized stored accommodations: %s", report)
	}

	return &domain.UserProfile{
		ID:             id,
		Username:       record.Username,
		Accommodations: set,
	}, nil
}

func (store *ProfileMemoryStore) UpdateAccommodations(_ context.Context, id string, set domain.SelectionSet) error {
	raw, err := json.Marshal(set.Clone())
	if err != nil {
		return err
	}
	return store.update(id, func(record *memoryRecord) {
		record.Accommodations = raw
	})
}

func (store *ProfileMemoryStore) UpdateUsername(_ context.Context, id string, username string) error {
	return store.update(id, func(record *memoryRecord) {
		record.Username = username
	})
}

func (store *ProfileMemoryStore) update(id string, apply func(record *memoryRecord)) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, ok := store.records[id]
	if !ok && !store.provisionOnWrite {
		return errors.ErrProfileNotFound
	}
	apply(&record)
	store.records[id] = record
	return nil
}
