package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/viral-scripts/internal/events"
	"github.com/phrazzld/viral-scripts/internal/wizard"
)

// MachineFactory builds the wizard machine for a new session.
type MachineFactory func(id string) *wizard.Machine

// Session is one user's wizard run.
type Session struct {
	ID        string
	Machine   *wizard.Machine
	CreatedAt time.Time
}

// Store is an in-memory registry of sessions, safe for concurrent use.
type Store struct {
	maxSessions int
	newMachine  MachineFactory
	emitter     events.EventEmitter
	logger      *slog.Logger
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty Store holding at most maxSessions sessions.
// A nil emitter discards session events.
func NewStore(
	maxSessions int,
	newMachine MachineFactory,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *Store {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		maxSessions: maxSessions,
		newMachine:  newMachine,
		emitter:     emitter,
		logger:      logger.With("component", "session_store"),
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Create opens a new session with its machine in the idle step.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	id := uuid.New().String()

	s.mu.Lock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "rejecting new session", "max_sessions", s.maxSessions)
		return nil, ErrStoreFull
	}
	sess := &Session{
		ID:        id,
		Machine:   s.newMachine(id),
		CreatedAt: s.now().UTC(),
	}
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session created", "session_id", id)
	s.publish(ctx, events.TypeSessionCreated, id)
	return sess, nil
}

// Get returns the session with the given id or ErrNotFound.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session. Deleting an unknown id returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.sessions, id)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session deleted", "session_id", id)
	s.publish(ctx, events.TypeSessionDeleted, id)
	return nil
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// IDs returns the ids of all open sessions, oldest first.
func (s *Store) IDs() []string {
	s.mu.RLock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	ids := make([]string, len(list))
	for i, sess := range list {
		ids[i] = sess.ID
	}
	return ids
}

// Prune deletes the sessions created more than maxAge ago, except those
// still generating. It returns the number of sessions removed.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) int {
	cutoff := s.now().UTC().Add(-maxAge)

	s.mu.Lock()
	var removed []string
	for id, sess := range s.sessions {
		if !sess.CreatedAt.Before(cutoff) {
			continue
		}
		if sess.Machine.Snapshot().Step == wizard.StepGenerating {
			continue
		}
		delete(s.sessions, id)
		removed = append(removed, id)
	}
	s.mu.Unlock()

	for _, id := range removed {
		s.publish(ctx, events.TypeSessionDeleted, id)
	}
	if len(removed) > 0 {
		s.logger.InfoContext(ctx, "pruned expired sessions", "count", len(removed))
	}
	return len(removed)
}

func (s *Store) publish(ctx context.Context, eventType, id string) {
	event, err := events.NewEvent(eventType, id, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build session event", "error", err)
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit session event",
			"event_type", eventType,
			"error", err)
	}
}
