package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/propdash/propdash/clients"
	"github.com/propdash/propdash/models"
)

// Sink receives the turn's streamed output. SessionResolved fires once,
// before the first chunk, so transport callers can emit the session id
// out-of-band.
type Sink interface {
	SessionResolved(sessionID string)
	Chunk(chunk []byte) error
}

// TurnResult summarizes a completed turn.
type TurnResult struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Usage     *Usage `json:"usage,omitempty"`
}

// Orchestrator sequences one chat turn: resolve or create the session, fetch
// history, assemble context, stream the model reply, and persist both sides.
// Every dependency except the model itself is allowed to fail without
// aborting the turn; the user gets a reply whenever the model is reachable.
type Orchestrator struct {
	sessions     *clients.SessionClient
	assembler    *ContextAssembler
	streamer     *Streamer
	historyLimit int
	logger       *zap.Logger
}

func NewOrchestrator(sessions *clients.SessionClient, assembler *ContextAssembler, streamer *Streamer, historyLimit int, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		sessions:     sessions,
		assembler:    assembler,
		streamer:     streamer,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Run executes the turn. The model call and all persistence run on a context
// detached from client cancellation: a dropped connection stops forwarding
// but never the completion-time persistence of a finished reply.
func (o *Orchestrator) Run(ctx context.Context, turn *models.TurnRequest, sink Sink) (*TurnResult, error) {
	ctx = context.WithoutCancel(ctx)

	sessionID, created := o.resolveSession(ctx, turn)

	// History and context come from independent services; fetch both at once.
	var (
		wg          sync.WaitGroup
		history     []models.Message
		contextText string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		history = o.fetchHistory(ctx, turn, sessionID, created)
	}()
	go func() {
		defer wg.Done()
		contextText = o.assembler.Assemble(ctx, turn.Message)
	}()
	wg.Wait()

	history = tail(history, o.historyLimit)

	// The user message does not depend on the model's output, so persist it
	// while the reply streams. The assistant append below waits for it to
	// keep messages in conversation order.
	userPersisted := make(chan struct{})
	go func() {
		defer close(userPersisted)
		if sessionID == "" {
			return
		}
		meta := map[string]any{"sent_at": time.Now().UTC().Format(time.RFC3339)}
		if _, err := o.sessions.AppendMessage(ctx, sessionID, turn.Message, models.SenderUser, meta); err != nil {
			o.logger.Warn("user message not persisted", zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	sink.SessionResolved(sessionID)

	text, usage, err := o.streamer.Stream(ctx, BuildMessages(contextText, history, turn.Message), sink.Chunk)
	if err != nil {
		<-userPersisted
		return nil, fmt.Errorf("stream turn: %w", err)
	}

	<-userPersisted
	o.persistAssistant(ctx, sessionID, text, usage)

	return &TurnResult{SessionID: sessionID, Text: text, Usage: usage}, nil
}

// resolveSession returns the session id for this turn and whether it was
// created just now. Creation failure degrades to an empty id: the reply still
// streams, this turn just goes unrecorded.
func (o *Orchestrator) resolveSession(ctx context.Context, turn *models.TurnRequest) (string, bool) {
	if turn.SessionID != "" {
		return turn.SessionID, false
	}

	session, err := o.sessions.CreateSession(ctx, turn.UserID, turn.UserEmail, TitleFromMessage(turn.Message))
	if err != nil {
		o.logger.Warn("session create failed, proceeding without persistence", zap.Error(err))
		return "", false
	}
	return session.SessionID, true
}

func (o *Orchestrator) fetchHistory(ctx context.Context, turn *models.TurnRequest, sessionID string, created bool) []models.Message {
	if len(turn.History) > 0 {
		return turn.History
	}
	// A session created this turn has nothing to fetch.
	if sessionID == "" || created {
		return nil
	}

	history, err := o.sessions.GetHistory(ctx, sessionID)
	if err != nil {
		o.logger.Warn("history fetch failed, proceeding with empty history",
			zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	return history.Messages
}

// persistAssistant makes exactly one attempt; failure is logged, never
// retried, and never reaches the already-completed client stream.
func (o *Orchestrator) persistAssistant(ctx context.Context, sessionID, text string, usage *Usage) {
	if sessionID == "" || text == "" {
		return
	}

	meta := map[string]any{"model": o.streamer.ModelName()}
	if usage != nil {
		meta["prompt_tokens"] = usage.PromptTokens
		meta["completion_tokens"] = usage.CompletionTokens
		meta["total_tokens"] = usage.TotalTokens
	}
	if _, err := o.sessions.AppendMessage(ctx, sessionID, text, models.SenderAssistant, meta); err != nil {
		o.logger.Warn("assistant message not persisted", zap.String("session_id", sessionID), zap.Error(err))
	}
}
