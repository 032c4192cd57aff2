package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Usage carries the provider's token accounting for one completed call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Streamer drives one model call, forwarding tokens to a sink as they arrive
// while accumulating the full text for the post-completion persistence step.
// Forwarding and accumulation share the one pass over the stream; neither
// buffers ahead of the other.
type Streamer struct {
	model       llms.Model
	modelName   string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewStreamer(model llms.Model, modelName string, maxTokens int, temperature float64, logger *zap.Logger) *Streamer {
	return &Streamer{
		model:       model,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (s *Streamer) ModelName() string {
	return s.modelName
}

// Stream sends msgs to the model and returns the accumulated reply text and
// usage. Sink failures (typically a disconnected client) stop forwarding but
// not accumulation, so the completed text is still available for persistence.
func (s *Streamer) Stream(ctx context.Context, msgs []llms.MessageContent, sink func([]byte) error) (string, *Usage, error) {
	var (
		buf     strings.Builder
		sinkErr error
	)

	resp, err := s.model.GenerateContent(ctx, msgs,
		llms.WithMaxTokens(s.maxTokens),
		llms.WithTemperature(s.temperature),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			buf.Write(chunk)
			if sinkErr == nil {
				if err := sink(chunk); err != nil {
					sinkErr = err
					s.logger.Warn("client stream write failed, continuing model call", zap.Error(err))
				}
			}
			return nil
		}),
	)
	if err != nil {
		return "", nil, fmt.Errorf("model call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, fmt.Errorf("model returned no choices")
	}

	text := buf.String()
	if text == "" {
		// Provider answered without streaming chunks.
		text = resp.Choices[0].Content
		if sinkErr == nil && text != "" {
			if err := sink([]byte(text)); err != nil {
				s.logger.Warn("client stream write failed", zap.Error(err))
			}
		}
	}

	return text, usageFromInfo(resp.Choices[0].GenerationInfo), nil
}

func usageFromInfo(info map[string]any) *Usage {
	if info == nil {
		return nil
	}
	return &Usage{
		PromptTokens:     intFromInfo(info, "PromptTokens"),
		CompletionTokens: intFromInfo(info, "CompletionTokens"),
		TotalTokens:      intFromInfo(info, "TotalTokens"),
	}
}

func intFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
