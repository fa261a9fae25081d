package app

import (
	"github.com/wasel/wasel/internal/domain"
)

// Outbound event names. Inbound names live in the signal adapter.
const (
	evtUserJoined     = "user_joined"
	evtUserLeft       = "user_left"
	evtUsersList      = "users_list"
	evtReceiveMessage = "receive_message"
	evtUserTyping     = "user_typing"
	evtCallInitiated  = "call_initiated"
	evtIncomingCall   = "incoming_call"
	evtCallAccepted   = "call_accepted"
	evtCallRejected   = "call_rejected"
	evtCallEnded      = "call_ended"
	evtCallState      = "call_state"
	evtCallError      = "call_error"
	evtMuted          = "participant_muted"
	evtVideoToggled   = "participant_video_toggled"
)

type userJoinedEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type userLeftEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type usersListEvent struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

type receiveMessageEvent struct {
	Type string `json:"type"`
	domain.Message
}

type userTypingEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type callInitiatedEvent struct {
	Type       string          `json:"type"`
	CallID     string          `json:"callId"`
	TargetUser string          `json:"targetUser"`
	CallType   domain.CallType `json:"callType"`
}

type incomingCallEvent struct {
	Type     string          `json:"type"`
	CallID   string          `json:"callId"`
	Caller   string          `json:"caller"`
	CallType domain.CallType `json:"callType"`
}

type callAcceptedEvent struct {
	Type   string `json:"type"`
	CallID string `json:"callId"`
}

type callRejectedEvent struct {
	Type   string `json:"type"`
	CallID string `json:"callId"`
}

type callEndedEvent struct {
	Type    string `json:"type"`
	CallID  string `json:"callId"`
	EndedBy string `json:"endedBy"`
	Reason  string `json:"reason,omitempty"`
}

type callStateEvent struct {
	Type   string            `json:"type"`
	CallID string            `json:"callId"`
	Status domain.CallStatus `json:"status"`
}

type callErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type participantMutedEvent struct {
	Type     string `json:"type"`
	CallID   string `json:"callId"`
	Username string `json:"username"`
	IsMuted  bool   `json:"isMuted"`
}

type participantVideoEvent struct {
	Type       string `json:"type"`
	CallID     string `json:"callId"`
	Username   string `json:"username"`
	IsVideoOff bool   `json:"isVideoOff"`
}
