package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Connect replays a stored run over a websocket, one frame per path step,
// and finishes with a done frame.
func (h *RunHandler) Connect(w http.ResponseWriter, r *http.Request) {
	run, ok := h.fetch(w, r)
	if !ok {
		return
	}

	grid, err := run.Grid()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.WithError(err).Error("db returned an invalid run")
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Incoming messages are ignored; reading only notices the client leaving.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.logger.WithError(err).Debug("ws reader stopped")
				}
				return
			}
		}
	}()

	log := h.logger.WithField("run_id", run.RunID)
	ticker := time.NewTicker(h.ws.StreamInterval)
	defer ticker.Stop()

	for i, pos := range run.Path {
		if i > 0 {
			select {
			case <-ctx.Done():
				log.Debug("client left mid-stream")
				return
			case <-ticker.C:
			}
		}
		step := NewStepDTO(grid, pos)
		frame := FrameDTO{Index: i, Step: &step, Found: run.Found, Moves: run.Path.Moves()}
		if err := c.WriteJSON(frame); err != nil {
			log.WithError(err).Warn("unable to write frame")
			return
		}
	}

	done := FrameDTO{Index: len(run.Path), Done: true, Found: run.Found, Moves: run.Path.Moves()}
	if err := c.WriteJSON(done); err != nil {
		log.WithError(err).Warn("unable to write final frame")
		return
	}

	closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	deadline := time.Now().Add(time.Second)
	if err := c.WriteControl(websocket.CloseMessage, closing, deadline); err != nil {
		log.WithError(err).Debug("unable to send close")
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
	}
}
