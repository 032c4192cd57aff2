package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/propdash/propdash/clients"
	"github.com/propdash/propdash/models"
)

// ConversationsController is a thin proxy over the session service for the
// dashboard's conversation list and detail views. Upstream 404s pass through
// verbatim; other upstream failures surface as 502.
type ConversationsController struct {
	Sessions *clients.SessionClient
	Logger   *zap.Logger
}

func (c *ConversationsController) ListConversations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := intQuery(query.Get("limit"), 20)
	skip := intQuery(query.Get("skip"), 0)

	sessions, err := c.Sessions.ListSessions(r.Context(), query.Get("userId"), query.Get("userEmail"), limit, skip)
	if err != nil {
		c.upstreamError(w, "list sessions", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (c *ConversationsController) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"userId"`
		UserEmail string `json:"userEmail"`
		Title     string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	session, err := c.Sessions.CreateSession(r.Context(), req.UserID, req.UserEmail, req.Title)
	if err != nil {
		c.upstreamError(w, "create session", err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (c *ConversationsController) GetConversationHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	history, err := c.Sessions.GetHistory(r.Context(), sessionID)
	if err != nil {
		c.upstreamError(w, "get history", err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (c *ConversationsController) UpdateConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	var update models.SessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	session, err := c.Sessions.UpdateSession(r.Context(), sessionID, update)
	if err != nil {
		c.upstreamError(w, "update session", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (c *ConversationsController) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	if err := c.Sessions.DeleteSession(r.Context(), sessionID); err != nil {
		c.upstreamError(w, "delete session", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted successfully", "session_id": sessionID})
}

func (c *ConversationsController) upstreamError(w http.ResponseWriter, op string, err error) {
	var se *clients.StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(se.Body))
		return
	}

	c.Logger.Error("session service call failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusBadGateway, "conversation service unavailable")
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
