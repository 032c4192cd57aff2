package controllers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/propdash/propdash/chat"
	"github.com/propdash/propdash/models"
)

type ChatController struct {
	Orchestrator *chat.Orchestrator
	Logger       *zap.Logger
}

// HandleChat runs one conversational turn and streams the reply body. The
// resolved session id travels out-of-band in the X-Session-Id header so a
// stateless client can continue the conversation on its next request.
func (c *ChatController) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	turn, err := req.Normalize()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sink := newStreamSink(w)
	if _, err := c.Orchestrator.Run(r.Context(), turn, sink); err != nil {
		c.Logger.Error("turn failed", zap.Error(err))
		if !sink.started {
			writeError(w, http.StatusBadGateway, "model provider unavailable")
		}
		return
	}
}

// streamSink adapts an http.ResponseWriter to the orchestrator's Sink. The
// session header is set before the first chunk commits the response.
type streamSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newStreamSink(w http.ResponseWriter) *streamSink {
	flusher, _ := w.(http.Flusher)
	return &streamSink{w: w, flusher: flusher}
}

func (s *streamSink) SessionResolved(sessionID string) {
	if sessionID != "" && !s.started {
		s.w.Header().Set("X-Session-Id", sessionID)
	}
}

func (s *streamSink) Chunk(chunk []byte) error {
	if !s.started {
		s.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}
	if _, err := s.w.Write(chunk); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": message})
}
