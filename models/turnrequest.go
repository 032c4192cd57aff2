package models

import (
	"errors"
	"strings"
)

var (
	ErrEmptyMessage  = errors.New("message is empty")
	ErrNoUserMessage = errors.New("last message must come from the user")
)

// ChatRequest is the wire shape of the chat endpoint. Clients send either a
// full message list ending in a user turn, or a single message with optional
// session and user identifiers. Both collapse into a TurnRequest.
type ChatRequest struct {
	Messages  []ChatTurn `json:"messages,omitempty"`
	Message   string     `json:"message,omitempty"`
	SessionID string     `json:"sessionId,omitempty"`
	UserID    string     `json:"userId,omitempty"`
	UserEmail string     `json:"userEmail,omitempty"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnRequest is the normalized form a chat request takes before the
// orchestrator runs: the newest user message plus whatever prior turns the
// client carried inline.
type TurnRequest struct {
	Message   string
	History   []Message
	SessionID string
	UserID    string
	UserEmail string
}

// Normalize validates the request and folds both accepted shapes into a
// TurnRequest. Validation failures here are the only fatal client errors in
// the pipeline; everything past this point degrades instead of aborting.
func (r *ChatRequest) Normalize() (*TurnRequest, error) {
	turn := &TurnRequest{
		SessionID: r.SessionID,
		UserID:    r.UserID,
		UserEmail: r.UserEmail,
	}

	if len(r.Messages) == 0 {
		if strings.TrimSpace(r.Message) == "" {
			return nil, ErrEmptyMessage
		}
		turn.Message = r.Message
		return turn, nil
	}

	last := r.Messages[len(r.Messages)-1]
	if normalizeRole(last.Role) != SenderUser {
		return nil, ErrNoUserMessage
	}
	if strings.TrimSpace(last.Content) == "" {
		return nil, ErrEmptyMessage
	}
	turn.Message = last.Content

	for _, m := range r.Messages[:len(r.Messages)-1] {
		sender := normalizeRole(m.Role)
		if sender == "" {
			continue
		}
		turn.History = append(turn.History, Message{Sender: sender, Content: m.Content})
	}
	return turn, nil
}

func normalizeRole(role string) string {
	switch strings.ToLower(role) {
	case "user", "human":
		return SenderUser
	case "assistant", "ai":
		return SenderAssistant
	default:
		return ""
	}
}
