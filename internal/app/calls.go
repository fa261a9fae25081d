package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/wasel/wasel/internal/core"
	"github.com/wasel/wasel/internal/domain"
)

// CallStore tracks in-progress call negotiations keyed by call ID.
// Owned by the Coordinator and guarded by its mutex.
type CallStore struct {
	byID map[string]*core.CallSession
}

func NewCallStore() *CallStore {
	return &CallStore{byID: make(map[string]*core.CallSession)}
}

// Create opens a new pending session between caller and target.
func (s *CallStore) Create(caller core.ConnID, callerName string, target core.ConnID, targetName string, ct domain.CallType) *core.CallSession {
	sess := &core.CallSession{
		ID:         uuid.NewString(),
		Caller:     caller,
		CallerName: callerName,
		Target:     target,
		TargetName: targetName,
		Type:       ct,
		Status:     domain.CallPending,
		StartedAt:  time.Now(),
	}
	s.byID[sess.ID] = sess
	return sess
}

func (s *CallStore) Get(id string) (*core.CallSession, bool) {
	sess, ok := s.byID[id]
	return sess, ok
}

// Accept transitions a pending session to accepted.
func (s *CallStore) Accept(id string) (*core.CallSession, bool) {
	sess, ok := s.byID[id]
	if !ok || sess.Status != domain.CallPending {
		return sess, false
	}
	sess.Status = domain.CallAccepted
	sess.AcceptedAt = time.Now()
	return sess, true
}

// Remove destroys a session. Removing an unknown ID is a no-op.
func (s *CallStore) Remove(id string) {
	delete(s.byID, id)
}

// WithParticipant returns every session a connection takes part in.
func (s *CallStore) WithParticipant(id core.ConnID) []*core.CallSession {
	var out []*core.CallSession
	for _, sess := range s.byID {
		if sess.Participant(id) {
			out = append(out, sess)
		}
	}
	return out
}

func (s *CallStore) Len() int { return len(s.byID) }

// Snapshot is a read-only view of active sessions for the REST API.
func (s *CallStore) Snapshot() []core.CallDTO {
	out := make([]core.CallDTO, 0, len(s.byID))
	for _, sess := range s.byID {
		out = append(out, core.CallDTO{
			ID:        sess.ID,
			Caller:    sess.CallerName,
			Target:    sess.TargetName,
			Type:      sess.Type,
			Status:    sess.Status,
			StartedAt: sess.StartedAt,
		})
	}
	return out
}
