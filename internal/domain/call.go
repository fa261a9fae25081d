package domain

import "errors"

type (
	CallType   string
	CallStatus string
)

const (
	CallAudio CallType = "audio"
	CallVideo CallType = "video"
)

const (
	CallPending  CallStatus = "pending"
	CallAccepted CallStatus = "accepted"
)

// Teardown reasons carried by call_ended events.
const (
	EndReasonHangup   = "hangup"
	EndReasonPeerGone = "peer disconnected"
	EndReasonRejected = "rejected"
)

var (
	ErrTargetNotFound = errors.New("target not found")
	ErrCallNotFound   = errors.New("call not found")
)
