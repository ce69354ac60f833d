// Package state holds the shared mutable state of the dashboard client:
// the current snapshot, the sync mode and the active execution ticket.
//
// The container is explicit and injectable (rather than ambient globals) so
// the sync controller and action executor can be unit tested in isolation
// from any rendering. All mutation is atomic per call; readers get copies.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulsepredict/sentinel/pkg/domain"
)

// Store is the injectable state container. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	snapshot *domain.Snapshot
	mode     domain.SyncMode

	ticket *domain.Ticket

	// issued/applied implement the monotonic request sequence from the
	// ordering rules: a slow sync response must never overwrite a newer one.
	issued  uint64
	applied uint64
}

// NewStore creates an empty container (no snapshot yet).
func NewStore() *Store {
	return &Store{}
}

// BeginSync allocates the sequence number for a new sync request.
func (s *Store) BeginSync() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Replace installs a freshly fetched snapshot wholesale. It returns false
// when seq is stale, i.e. a later-issued sync already applied its result;
// the caller must then discard the response.
func (s *Store) Replace(seq uint64, snap *domain.Snapshot, mode domain.SyncMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		return false
	}

	incoming := snap.Clone()

	// EXECUTED is session state owned by the client, not the service: the
	// wire payload carries no statuses, so a reconciling sync must not
	// resurrect a completed action. Carry the marks over by id.
	if s.snapshot != nil {
		for i := range incoming.Agent.Actions {
			prev := s.snapshot.ActionByID(incoming.Agent.Actions[i].ID)
			if prev != nil && prev.EffectiveStatus() == domain.StatusExecuted {
				incoming.Agent.Actions[i].Status = domain.StatusExecuted
			}
		}
	}

	s.applied = seq
	s.snapshot = incoming
	s.mode = mode
	return true
}

// Snapshot returns a copy of the current snapshot and the mode it was
// obtained under. Returns domain.ErrNoSnapshot before the first sync.
func (s *Store) Snapshot() (*domain.Snapshot, domain.SyncMode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, s.mode, domain.ErrNoSnapshot
	}
	return s.snapshot.Clone(), s.mode, nil
}

// HasSnapshot reports whether any snapshot has ever been obtained.
func (s *Store) HasSnapshot() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

// Mode returns the current sync mode.
func (s *Store) Mode() domain.SyncMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// ActionStatus returns the effective status of an action in the stored
// snapshot, or domain.ErrUnknownAction / domain.ErrNoSnapshot.
func (s *Store) ActionStatus(actionID int) (domain.ActionStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return "", domain.ErrNoSnapshot
	}
	a := s.snapshot.ActionByID(actionID)
	if a == nil {
		return "", domain.ErrUnknownAction
	}
	return a.EffectiveStatus(), nil
}

// MarkExecuted flips an action to EXECUTED in the stored snapshot.
// EXECUTED is terminal; marking an executed action again is a no-op.
func (s *Store) MarkExecuted(actionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return domain.ErrNoSnapshot
	}
	a := s.snapshot.ActionByID(actionID)
	if a == nil {
		return domain.ErrUnknownAction
	}
	a.Status = domain.StatusExecuted
	return nil
}

// OpenTicket registers an in-flight execution for the given action.
// While any ticket is open, further attempts are rejected: the same id
// returns domain.ErrAlreadyExecuted semantics upstream, a different id
// gets domain.ErrExecutionInFlight (single-flight UI).
func (s *Store) OpenTicket(actionID int) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticket != nil {
		return domain.Ticket{}, domain.ErrExecutionInFlight
	}
	s.ticket = &domain.Ticket{
		ID:        uuid.NewString(),
		ActionID:  actionID,
		StartedAt: time.Now(),
	}
	return *s.ticket, nil
}

// CloseTicket destroys the ticket, unblocking the next execution.
// Closing by a stale ticket id is a no-op.
func (s *Store) CloseTicket(ticketID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticket != nil && s.ticket.ID == ticketID {
		s.ticket = nil
	}
}

// Ticket returns a copy of the open ticket, if any.
func (s *Store) Ticket() (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ticket == nil {
		return domain.Ticket{}, false
	}
	return *s.ticket, true
}
