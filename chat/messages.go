package chat

import (
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/propdash/propdash/models"
)

const titleLimit = 50

// BuildMessages lays out the outbound model call: the assembled context as
// the single system message, the truncated history oldest-first, and the new
// user message last.
func BuildMessages(contextText string, history []models.Message, userMessage string) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, contextText))

	for _, m := range history {
		switch m.Sender {
		case models.SenderUser:
			content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		case models.SenderAssistant:
			content = append(content, llms.TextParts(llms.ChatMessageTypeAI, m.Content))
		}
	}

	return append(content, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))
}

// TitleFromMessage derives a session title from the first message of a
// conversation, truncated to 50 characters with a trailing ellipsis.
func TitleFromMessage(message string) string {
	runes := []rune(message)
	if len(runes) <= titleLimit {
		return strings.TrimSpace(message)
	}
	return strings.TrimSpace(string(runes[:titleLimit])) + "..."
}

// tail keeps the most recent n messages; older history is dropped outright
// rather than summarized.
func tail(messages []models.Message, n int) []models.Message {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
