package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/wasel/wasel/internal/core"
)

func (ctl *Controller) handleJoin(id core.ConnID, conn *WsConn, data []byte) {
	type joinPayload struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	if err := ctl.Coord.Join(id, p.Name); err != nil {
		ctl.sendError(conn, err.Error())
		return
	}
}

// handleLeave drops the presence entry; the connection itself stays open.
func (ctl *Controller) handleLeave(id core.ConnID, conn *WsConn) {
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("leave")
	ctl.Coord.Leave(id)
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
	})
}

func (ctl *Controller) handleSendMessage(id core.ConnID, conn *WsConn, data []byte) {
	if !ctl.Limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("message rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}

	type msgPayload struct {
		Type  string `json:"type"`
		Text  string `json:"text"`
		Image string `json:"image,omitempty"`
		Video string `json:"video,omitempty"`
	}
	var p msgPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad message payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	ctl.Coord.SendMessage(id, p.Text, p.Image, p.Video)
}

func (ctl *Controller) handleTyping(id core.ConnID, conn *WsConn, data []byte) {
	type typingPayload struct {
		Type     string `json:"type"`
		IsTyping bool   `json:"isTyping"`
	}
	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad typing payload")
		return
	}

	ctl.Coord.SetTyping(id, p.IsTyping)
}
