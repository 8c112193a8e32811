package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"profile_service/domain"
	"profile_service/errors"
)

// ProfileGateway is the part of ProfileService an editor session needs.
type ProfileGateway interface {
	Load(ctx context.Context, userID string) LoadResult
	Save(ctx context.Context, userID string, set domain.SelectionSet) error
}

type SessionState string

const (
	StateLoading SessionState = "loading"
	StateReady   SessionState = "ready"
	StateFailed  SessionState = "failed"
)

// EditorView is a snapshot of a session. Selections is nil until the
// session is ready.
type EditorView struct {
	ID         string              `json:"id"`
	State      SessionState        `json:"state"`
	IsNew      bool                `json:"isNew"`
	Saving     bool                `json:"saving"`
	Dirty      bool                `json:"dirty"`
	Error      string              `json:"error,omitempty"`
	Selections domain.SelectionSet `json:"selections,omitempty"`
}

// EditorSession holds one user's selector draft. The draft only accepts
// transitions once the initial load has completed successfully; loads that
// finish after the session was remounted or closed are dropped.
type EditorSession struct {
	userID  string
	gateway ProfileGateway
	metrics *Metrics
	logger  *logrus.Logger

	mu         sync.Mutex
	id         string
	generation uint64
	state      SessionState
	isNew      bool
	loadErr    error
	saved      domain.SelectionSet
	draft      domain.SelectionSet
	saving     bool
	closed     bool
	cancel     context.CancelFunc
	done       chan struct{}
}

func newEditorSession(userID string, gateway ProfileGateway, metrics *Metrics, logger *logrus.Logger) *EditorSession {
	session := &EditorSession{
		userID:  userID,
		gateway: gateway,
		metrics: metrics,
		logger:  logger,
	}
	session.mount()
	return session
}

// mount discards the draft and starts a fresh load.
func (s *EditorSession) mount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s.generation++
	s.id = uuid.NewString()
	s.state = StateLoading
	s.isNew = false
	s.loadErr = nil
	s.saved = nil
	s.draft = nil
	s.saving = false
	s.closed = false
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.load(ctx, s.generation, s.done)
}

func (s *EditorSession) load(ctx context.Context, generation uint64, done chan struct{}) {
	defer close(done)
	result := s.gateway.Load(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || generation != s.generation {
		s.logger.WithField("profile", s.userID).Debug("Discarding superseded selector load")
		return
	}

	switch result.Status {
	case LoadFound:
		s.state = StateReady
		s.saved = result.Profile.Accommodations.Clone()
	case LoadNotFound:
		s.state = StateReady
		s.isNew = true
		s.saved = domain.NewSelectionSet()
	default:
		s.state = StateFailed
		s.loadErr = result.Err
		return
	}
	s.draft = s.saved.Clone()
}

// Wait blocks until the current load has settled or ctx is done.
func (s *EditorSession) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *EditorSession) View() EditorView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// LoadError is the error of the last failed load, nil otherwise.
func (s *EditorSession) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *EditorSession) retryable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || s.state == StateFailed
}

func (s *EditorSession) viewLocked() EditorView {
	view := EditorView{
		ID:     s.id,
		State:  s.state,
		IsNew:  s.isNew,
		Saving: s.saving,
	}
	if s.loadErr != nil {
		view.Error = s.loadErr.Error()
	}
	if s.state == StateReady {
		view.Selections = s.draft.Clone()
		view.Dirty = !s.draft.Equal(s.saved)
	}
	return view
}

func (s *EditorSession) CyclePriority(category domain.Category, label string) (EditorView, error) {
	return s.apply("priority", category, label, domain.CyclePriority)
}

func (s *EditorSession) TogglePrivacy(category domain.Category, label string) (EditorView, error) {
	return s.apply("privacy", category, label, domain.TogglePrivacy)
}

func (s *EditorSession) apply(kind string, category domain.Category, label string, transition func(domain.SelectionSet, domain.Category, string) domain.SelectionSet) (EditorView, error) {
	if !category.Valid() {
		return s.View(), fmt.Errorf("%w: %q", errors.ErrUnknownCategory, string(category))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return s.viewLocked(), err
	}
	s.draft = transition(s.draft, category, label)
	s.metrics.RecordTransition(kind)
	return s.viewLocked(), nil
}

func (s *EditorSession) readyLocked() error {
	switch {
	case s.closed:
		return errors.ErrSessionDiscarded
	case s.state == StateLoading:
		return errors.ErrNotLoaded
	case s.state == StateFailed:
		return fmt.Errorf("%w: %w", errors.ErrLoadFailed, s.loadErr)
	}
	return nil
}

// Save writes the current draft. The draft is left as it is whether the
// write succeeds or not; only one save may be outstanding at a time.
func (s *EditorSession) Save(ctx context.Context) (EditorView, error) {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		view := s.viewLocked()
		s.mu.Unlock()
		return view, err
	}
	if s.saving {
		view := s.viewLocked()
		s.mu.Unlock()
		return view, errors.ErrSaveInFlight
	}
	s.saving = true
	generation := s.generation
	snapshot := s.draft.Clone()
	s.mu.Unlock()

	err := s.gateway.Save(ctx, s.userID, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation == s.generation {
		s.saving = false
		if err == nil {
			s.saved = snapshot
			s.isNew = false
		}
	}
	return s.viewLocked(), err
}

func (s *EditorSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}

// EditorSessions keeps at most one editor session per user, bounded by an
// LRU. Evicted sessions are closed.
type EditorSessions struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *EditorSession]
	gateway  ProfileGateway
	metrics  *Metrics
	logger   *logrus.Logger
}

func NewEditorSessions(size int, gateway ProfileGateway, metrics *Metrics, logger *logrus.Logger) (*EditorSessions, error) {
	sessions, err := lru.NewWithEvict[string, *EditorSession](size, func(userID string, session *EditorSession) {
		logger.WithField("profile", userID).Debug("Closing editor session")
		session.close()
	})
	if err != nil {
		return nil, err
	}
	return &EditorSessions{
		sessions: sessions,
		gateway:  gateway,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Acquire returns the user's session, mounting one if there is none. A
// session whose load failed is loaded again; a ready draft is kept.
func (m *EditorSessions) Acquire(userID string) *EditorSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions.Get(userID); ok {
		if session.retryable() {
			session.mount()
		}
		return session
	}
	return m.addLocked(userID)
}

// Mount discards any existing draft for the user and reloads.
func (m *EditorSessions) Mount(userID string) *EditorSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions.Get(userID); ok {
		session.mount()
		return session
	}
	return m.addLocked(userID)
}

func (m *EditorSessions) addLocked(userID string) *EditorSession {
	session := newEditorSession(userID, m.gateway, m.metrics, m.logger)
	m.sessions.Add(userID, session)
	m.metrics.SetSessions(m.sessions.Len())
	return session
}

func (m *EditorSessions) Session(userID string) (*EditorSession, bool) {
	return m.sessions.Get(userID)
}

// Unmount closes the user's session. A load still in flight is cancelled
// and its result discarded.
func (m *EditorSessions) Unmount(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions.Peek(userID)
	if !ok {
		return false
	}
	m.sessions.Remove(userID)
	session.close()
	m.metrics.SetSessions(m.sessions.Len())
	return true
}

func (m *EditorSessions) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions.Purge()
	m.metrics.SetSessions(0)
}
