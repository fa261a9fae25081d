// Package app holds the coordinating core: the presence registry, the chat
// broadcast, the call session store, the signaling relay, and the
// disconnect cleanup that ties them together.
package app

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wasel/wasel/internal/core"
	"github.com/wasel/wasel/internal/domain"
)

// Coordinator owns all mutable shared state. Every inbound event is
// handled to completion under one mutex, which gives a total order over
// mutations and broadcasts; no other code path may touch the presence
// table or the call store.
type Coordinator struct {
	mu       sync.Mutex
	conns    map[core.ConnID]core.SignalConnection
	presence *PresenceTable
	calls    *CallStore
	policy   Policy
}

func NewCoordinator(policy Policy) *Coordinator {
	return &Coordinator{
		conns:    make(map[core.ConnID]core.SignalConnection),
		presence: NewPresenceTable(),
		calls:    NewCallStore(),
		policy:   policy,
	}
}

// Attach registers a freshly upgraded connection. The connection receives
// broadcasts from this point on, joined or not.
func (c *Coordinator) Attach(id core.ConnID, conn core.SignalConnection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[id] = conn
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Msg("connection attached")
}

// Join records the display name for a connection and announces it.
// A second join from the same connection just updates the name.
func (c *Coordinator) Join(id core.ConnID, name string) error {
	if err := domain.ValidateDisplayName(name); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presence.Join(id, name)
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Str("name", name).Msg("joined")

	c.broadcastExcept(id, userJoinedEvent{
		Type:     evtUserJoined,
		Username: name,
		Message:  fmt.Sprintf("%s joined the chat", name),
	})
	c.broadcast(usersListEvent{Type: evtUsersList, Users: c.presence.Names()})
	return nil
}

// Leave is an explicit exit: calls are torn down first so no session ever
// references a non-present connection, then the presence entry goes. The
// connection itself stays attached. Never-joined connections are a silent
// no-op.
func (c *Coordinator) Leave(id core.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownCallsLocked(id)
	c.leaveLocked(id)
}

func (c *Coordinator) teardownCallsLocked(id core.ConnID) {
	for _, sess := range c.calls.WithParticipant(id) {
		peer, _ := sess.Peer(id)
		c.terminateLocked(sess, sess.NameOf(id), domain.EndReasonPeerGone, peer)
	}
}

func (c *Coordinator) leaveLocked(id core.ConnID) {
	name, ok := c.presence.Leave(id)
	if !ok {
		return
	}
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Str("name", name).Msg("left")
	c.broadcastExcept(id, userLeftEvent{
		Type:     evtUserLeft,
		Username: name,
		Message:  fmt.Sprintf("%s left the chat", name),
	})
	c.broadcast(usersListEvent{Type: evtUsersList, Users: c.presence.Names()})
}

// SendMessage stamps a chat message and fans it out to every connection,
// including the sender. The registry is the source of truth for the author
// name; un-joined senders are dropped.
func (c *Coordinator) SendMessage(id core.ConnID, text, image, video string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.presence.Name(id)
	if !ok {
		return
	}
	if text == "" && image == "" && video == "" {
		return
	}
	msg := domain.Message{
		ID:        uuid.NewString(),
		Username:  name,
		Text:      text,
		Image:     image,
		Video:     video,
		Timestamp: time.Now().UTC(),
	}
	c.broadcast(receiveMessageEvent{Type: evtReceiveMessage, Message: msg})
}

// SetTyping relays an advisory typing flag to everyone else.
func (c *Coordinator) SetTyping(id core.ConnID, isTyping bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.presence.Name(id)
	if !ok {
		return
	}
	c.broadcastExcept(id, userTypingEvent{Type: evtUserTyping, Username: name, IsTyping: isTyping})
}

// InitiateCall opens a pending session toward the named target and rings
// it. When no such target is online the caller alone gets a call_error and
// no session is created.
func (c *Coordinator) InitiateCall(id core.ConnID, targetName string, ct domain.CallType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	callerName, ok := c.presence.Name(id)
	if !ok {
		return
	}
	target, ok := c.presence.ResolveByName(targetName)
	if !ok {
		c.sendTo(id, callErrorEvent{Type: evtCallError, Error: domain.ErrTargetNotFound.Error()})
		return
	}
	sess := c.calls.Create(id, callerName, target, targetName, ct)
	log.Info().Str("module", "app.coordinator").
		Str("call", sess.ID).Str("caller", callerName).Str("target", targetName).
		Str("call_type", string(ct)).Msg("call initiated")

	c.sendTo(id, callInitiatedEvent{
		Type: evtCallInitiated, CallID: sess.ID, TargetUser: targetName, CallType: ct,
	})
	c.sendTo(target, incomingCallEvent{
		Type: evtIncomingCall, CallID: sess.ID, Caller: callerName, CallType: ct,
	})
}

// AcceptCall transitions a pending session to accepted and tells both
// parties. Accepting a session that is no longer pending reports its
// current status to the responder and changes nothing.
func (c *Coordinator) AcceptCall(id core.ConnID, callID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.calls.Get(callID)
	if !ok {
		c.sendTo(id, callErrorEvent{Type: evtCallError, Error: domain.ErrCallNotFound.Error()})
		return
	}
	if _, ok := c.calls.Accept(callID); !ok {
		c.sendTo(id, callStateEvent{Type: evtCallState, CallID: callID, Status: sess.Status})
		return
	}
	log.Info().Str("module", "app.coordinator").Str("call", callID).Msg("call accepted")
	c.sendTo(sess.Caller, callAcceptedEvent{Type: evtCallAccepted, CallID: callID})
	c.sendTo(sess.Target, callAcceptedEvent{Type: evtCallAccepted, CallID: callID})
}

// RejectCall notifies the caller and destroys the session. Only pending
// sessions can be rejected; otherwise the current status is reported back.
func (c *Coordinator) RejectCall(id core.ConnID, callID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.calls.Get(callID)
	if !ok {
		c.sendTo(id, callErrorEvent{Type: evtCallError, Error: domain.ErrCallNotFound.Error()})
		return
	}
	if sess.Status != domain.CallPending {
		c.sendTo(id, callStateEvent{Type: evtCallState, CallID: callID, Status: sess.Status})
		return
	}
	log.Info().Str("module", "app.coordinator").Str("call", callID).Msg("call rejected")
	c.sendTo(sess.Caller, callRejectedEvent{Type: evtCallRejected, CallID: callID})
	c.calls.Remove(callID)
}

// EndCall tears a session down on behalf of a participant. Ending an
// unknown or already-removed call succeeds silently.
func (c *Coordinator) EndCall(id core.ConnID, callID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.calls.Get(callID)
	if !ok {
		return
	}
	endedBy := sess.NameOf(id)
	if endedBy == "" {
		endedBy, _ = c.presence.Name(id)
	}
	c.terminateLocked(sess, endedBy, domain.EndReasonHangup, sess.Caller, sess.Target)
}

// terminateLocked is the one teardown path shared by explicit end_call and
// by disconnect cleanup: notify the listed parties, then drop the session.
func (c *Coordinator) terminateLocked(sess *core.CallSession, endedBy, reason string, notify ...core.ConnID) {
	log.Info().Str("module", "app.coordinator").
		Str("call", sess.ID).Str("ended_by", endedBy).Str("reason", reason).Msg("call ended")
	for _, id := range notify {
		c.sendTo(id, callEndedEvent{Type: evtCallEnded, CallID: sess.ID, EndedBy: endedBy, Reason: reason})
	}
	c.calls.Remove(sess.ID)
}

// Relay forwards a handshake frame to the other party of a call. The
// payload stays opaque and travels verbatim under its original key.
// Unknown calls and non-participants are dropped without an error; these
// frames are best-effort during an active negotiation.
func (c *Coordinator) Relay(id core.ConnID, event, callID, payloadKey string, payload json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.calls.Get(callID)
	if !ok {
		return
	}
	peer, ok := sess.Peer(id)
	if !ok {
		return
	}
	c.sendTo(peer, map[string]any{
		"type":     event,
		"callId":   callID,
		payloadKey: payload,
	})
}

// ToggleMute mirrors a mute flag to the peer, attributed to the sender.
func (c *Coordinator) ToggleMute(id core.ConnID, callID string, muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.calls.Get(callID)
	if !ok {
		return
	}
	peer, ok := sess.Peer(id)
	if !ok {
		return
	}
	c.sendTo(peer, participantMutedEvent{
		Type: evtMuted, CallID: callID, Username: sess.NameOf(id), IsMuted: muted,
	})
}

// ToggleVideo mirrors a video on/off flag to the peer.
func (c *Coordinator) ToggleVideo(id core.ConnID, callID string, videoOff bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.calls.Get(callID)
	if !ok {
		return
	}
	peer, ok := sess.Peer(id)
	if !ok {
		return
	}
	c.sendTo(peer, participantVideoEvent{
		Type: evtVideoToggled, CallID: callID, Username: sess.NameOf(id), IsVideoOff: videoOff,
	})
}

// Detach unwinds everything a lost connection owned. Calls are torn down
// first so the surviving party is told while the display name is still
// registered, then the presence entry goes.
func (c *Coordinator) Detach(id core.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownCallsLocked(id)
	c.leaveLocked(id)
	delete(c.conns, id)
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Msg("connection detached")
}

// Users snapshots the online display names in join order.
func (c *Coordinator) Users() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presence.Names()
}

// Calls snapshots the active call sessions.
func (c *Coordinator) Calls() []core.CallDTO {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls.Snapshot()
}

// sendTo delivers one event to one connection, fire-and-forget.
func (c *Coordinator) sendTo(id core.ConnID, v any) {
	conn, ok := c.conns[id]
	if !ok {
		return
	}
	c.push(id, conn, v)
}

// broadcast fans an event out to every attached connection. A slow or
// failed channel never aborts delivery to the rest.
func (c *Coordinator) broadcast(v any) {
	for id, conn := range c.conns {
		c.push(id, conn, v)
	}
}

func (c *Coordinator) broadcastExcept(skip core.ConnID, v any) {
	for id, conn := range c.conns {
		if id == skip {
			continue
		}
		c.push(id, conn, v)
	}
}

func (c *Coordinator) push(id core.ConnID, conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("event marshal")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("conn", string(id)).Msg("dropped frame")
		if c.policy != nil && c.policy.OnBackPressure(id) == KickMember {
			conn.Close()
		}
	}
}
