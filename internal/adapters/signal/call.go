package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/wasel/wasel/internal/core"
	"github.com/wasel/wasel/internal/domain"
)

func (ctl *Controller) handleInitiateCall(id core.ConnID, conn *WsConn, data []byte) {
	type initiatePayload struct {
		Type     string `json:"type"`
		Target   string `json:"targetName"`
		CallType string `json:"callType"`
	}
	var p initiatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad initiate payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	ct := domain.CallType(p.CallType)
	if ct != domain.CallAudio && ct != domain.CallVideo {
		ct = domain.CallVideo
	}
	ctl.Coord.InitiateCall(id, p.Target, ct)
}

func (ctl *Controller) handleCallResponse(id core.ConnID, conn *WsConn, data []byte) {
	type responsePayload struct {
		Type     string `json:"type"`
		CallID   string `json:"callId"`
		Response string `json:"response"`
	}
	var p responsePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad call_response payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	switch p.Response {
	case "accept":
		ctl.Coord.AcceptCall(id, p.CallID)
	case "reject":
		ctl.Coord.RejectCall(id, p.CallID)
	default:
		log.Warn().Str("module", "signal").Str("response", p.Response).Msg("unknown call response")
		ctl.sendError(conn, "bad_payload")
	}
}

func (ctl *Controller) handleEndCall(id core.ConnID, conn *WsConn, data []byte) {
	type endPayload struct {
		Type   string `json:"type"`
		CallID string `json:"callId"`
	}
	var p endPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad end_call payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	ctl.Coord.EndCall(id, p.CallID)
}

// handleRelay passes a handshake frame through untouched. The payload key
// matches what the clients exchange (offer/answer/candidate); its contents
// are never inspected here.
func (ctl *Controller) handleRelay(id core.ConnID, conn *WsConn, data []byte, event, key string) {
	var p map[string]json.RawMessage
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("event", event).Msg("bad relay payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	var callID string
	if raw, ok := p["callId"]; ok {
		if err := json.Unmarshal(raw, &callID); err != nil {
			ctl.sendError(conn, "bad_payload")
			return
		}
	}
	payload, ok := p[key]
	if callID == "" || !ok {
		ctl.sendError(conn, "bad_payload")
		return
	}

	ctl.Coord.Relay(id, event, callID, key, payload)
}

func (ctl *Controller) handleToggleMute(id core.ConnID, conn *WsConn, data []byte) {
	type mutePayload struct {
		Type    string `json:"type"`
		CallID  string `json:"callId"`
		IsMuted bool   `json:"isMuted"`
	}
	var p mutePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad toggle_mute payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	ctl.Coord.ToggleMute(id, p.CallID, p.IsMuted)
}

func (ctl *Controller) handleToggleVideo(id core.ConnID, conn *WsConn, data []byte) {
	type videoPayload struct {
		Type       string `json:"type"`
		CallID     string `json:"callId"`
		IsVideoOff bool   `json:"isVideoOff"`
	}
	var p videoPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad toggle_video payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	ctl.Coord.ToggleVideo(id, p.CallID, p.IsVideoOff)
}
