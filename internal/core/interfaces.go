package core

import (
	"time"

	"github.com/wasel/wasel/internal/domain"
)

// Frame is an encoded outbound payload.
type Frame []byte

// ConnID identifies one live client connection. Assigned by the transport
// adapter on upgrade, never reused within a process lifetime.
type ConnID string

// SignalConnection abstracts for a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PresenceEntry binds a connection to the display name it joined with.
// At most one entry exists per connection.
type PresenceEntry struct {
	Conn ConnID
	Name string
}

// CallSession is the tracked state of one in-progress call negotiation.
// Both referenced connections must stay present for the session to remain
// valid; either side disappearing tears the session down.
type CallSession struct {
	ID         string
	Caller     ConnID
	CallerName string
	Target     ConnID
	TargetName string
	Type       domain.CallType
	Status     domain.CallStatus
	StartedAt  time.Time
	AcceptedAt time.Time
}

// Participant reports whether id is one of the session's two parties.
func (s *CallSession) Participant(id ConnID) bool {
	return id == s.Caller || id == s.Target
}

// Peer resolves "the other party" relative to id. ok is false when id is
// not a participant at all.
func (s *CallSession) Peer(id ConnID) (ConnID, bool) {
	switch id {
	case s.Caller:
		return s.Target, true
	case s.Target:
		return s.Caller, true
	}
	return "", false
}

// NameOf returns the display name the session recorded for a participant.
func (s *CallSession) NameOf(id ConnID) string {
	switch id {
	case s.Caller:
		return s.CallerName
	case s.Target:
		return s.TargetName
	}
	return ""
}

// CallDTO is a read-only view for APIs (no transport fields).
type CallDTO struct {
	ID        string            `json:"id"`
	Caller    string            `json:"caller"`
	Target    string            `json:"target"`
	Type      domain.CallType   `json:"callType"`
	Status    domain.CallStatus `json:"status"`
	StartedAt time.Time         `json:"startedAt"`
}
