package models

import (
	"errors"
	"testing"
)

func TestNormalize_SingleMessage(t *testing.T) {
	req := &ChatRequest{Message: "Show me properties on Broadway", SessionID: "abc", UserID: "u1"}

	turn, err := req.Normalize()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if turn.Message != "Show me properties on Broadway" {
		t.Fatalf("unexpected message: %q", turn.Message)
	}
	if turn.SessionID != "abc" || turn.UserID != "u1" {
		t.Fatalf("identifiers not carried over: %+v", turn)
	}
	if len(turn.History) != 0 {
		t.Fatalf("expected no inline history, got %d", len(turn.History))
	}
}

func TestNormalize_MessageList(t *testing.T) {
	req := &ChatRequest{Messages: []ChatTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi, how can I help?"},
		{Role: "user", Content: "what about rent on Fifth Avenue?"},
	}}

	turn, err := req.Normalize()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if turn.Message != "what about rent on Fifth Avenue?" {
		t.Fatalf("unexpected message: %q", turn.Message)
	}
	if len(turn.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(turn.History))
	}
	if turn.History[0].Sender != SenderUser || turn.History[1].Sender != SenderAssistant {
		t.Fatalf("unexpected senders: %+v", turn.History)
	}
}

func TestNormalize_LastMessageNotUser(t *testing.T) {
	req := &ChatRequest{Messages: []ChatTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	}}

	if _, err := req.Normalize(); !errors.Is(err, ErrNoUserMessage) {
		t.Fatalf("expected ErrNoUserMessage, got %v", err)
	}
}

func TestNormalize_EmptyMessage(t *testing.T) {
	cases := []*ChatRequest{
		{},
		{Message: "   "},
		{Messages: []ChatTurn{{Role: "user", Content: ""}}},
	}
	for i, req := range cases {
		if _, err := req.Normalize(); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("case %d: expected ErrEmptyMessage, got %v", i, err)
		}
	}
}

func TestNormalize_SkipsUnknownRoles(t *testing.T) {
	req := &ChatRequest{Messages: []ChatTurn{
		{Role: "system", Content: "you are a bot"},
		{Role: "user", Content: "hello"},
	}}

	turn, err := req.Normalize()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(turn.History) != 0 {
		t.Fatalf("system turn should be dropped from history, got %+v", turn.History)
	}
}
