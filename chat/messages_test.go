package chat

import (
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/propdash/propdash/models"
)

func TestTitleFromMessage(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"short message kept whole", "Show me properties", "Show me properties"},
		{"sixty chars becomes fifty plus ellipsis", strings.Repeat("a", 60), strings.Repeat("a", 50) + "..."},
		{"exactly fifty untouched", strings.Repeat("b", 50), strings.Repeat("b", 50)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TitleFromMessage(tc.message)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}

	if got := TitleFromMessage(strings.Repeat("a", 60)); len(got) != 53 {
		t.Fatalf("truncated title length = %d, want 53", len(got))
	}
}

func TestBuildMessages_Ordering(t *testing.T) {
	history := []models.Message{
		{Sender: models.SenderUser, Content: "q1"},
		{Sender: models.SenderAssistant, Content: "a1"},
	}

	msgs := BuildMessages("context here", history, "q2")
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}

	wantRoles := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
	}
	for i, want := range wantRoles {
		if msgs[i].Role != want {
			t.Fatalf("message %d role = %v, want %v", i, msgs[i].Role, want)
		}
	}
	if got := messageText(msgs[3]); got != "q2" {
		t.Fatalf("new user message must be last, got %q", got)
	}
}

func TestBuildMessages_DropsUnknownSenders(t *testing.T) {
	history := []models.Message{{Sender: "system", Content: "internal"}}
	msgs := BuildMessages("ctx", history, "hi")
	if len(msgs) != 2 {
		t.Fatalf("unknown sender should be dropped, got %d messages", len(msgs))
	}
}

func TestTail(t *testing.T) {
	var history []models.Message
	for i := 0; i < 15; i++ {
		history = append(history, models.Message{Content: strings.Repeat("x", i+1)})
	}
	kept := tail(history, 10)
	if len(kept) != 10 {
		t.Fatalf("expected 10 kept, got %d", len(kept))
	}
	if kept[0].Content != history[5].Content {
		t.Fatal("tail must keep the most recent messages")
	}
	if got := tail(history[:3], 10); len(got) != 3 {
		t.Fatalf("short history must pass through, got %d", len(got))
	}
}
