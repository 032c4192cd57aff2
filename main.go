package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/rs/cors"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/twinj/uuid"
	"go.uber.org/zap"

	"github.com/propdash/propdash/chat"
	"github.com/propdash/propdash/clients"
	"github.com/propdash/propdash/config"
	"github.com/propdash/propdash/controllers"
)

type Handlers struct {
	ChatController          *controllers.ChatController
	ConversationsController *controllers.ConversationsController
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	sessionClient := clients.NewSessionClient(cfg.SessionServiceURL, cfg.ClientTimeout, logger)
	propertyClient := clients.NewPropertyClient(cfg.PropertyServiceURL, cfg.ClientTimeout, logger)

	openAIOptions := []openai.Option{
		openai.WithToken(cfg.OpenAIToken),
		openai.WithModel(cfg.LLMModel),
	}
	if cfg.OpenAIBaseURL != "" {
		openAIOptions = append(openAIOptions, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}
	llm, err := openai.New(openAIOptions...)
	if err != nil {
		logger.Fatal("failed to initialize model provider", zap.Error(err))
	}

	assembler := chat.NewContextAssembler(cfg.KnowledgeBase, propertyClient, cfg.SearchLimit, logger)
	streamer := chat.NewStreamer(llm, cfg.LLMModel, cfg.MaxTokens, cfg.Temperature, logger)
	orchestrator := chat.NewOrchestrator(sessionClient, assembler, streamer, cfg.HistoryLimit, logger)

	handlers := &Handlers{
		ChatController: &controllers.ChatController{
			Orchestrator: orchestrator,
			Logger:       logger,
		},
		ConversationsController: &controllers.ConversationsController{
			Sessions: sessionClient,
			Logger:   logger,
		},
	}

	httpRouter := http.NewServeMux()

	//CHAT
	httpRouter.HandleFunc("POST /api/chat", handlers.ChatController.HandleChat)

	//CONVERSATIONS
	httpRouter.HandleFunc("GET /api/conversations", handlers.ConversationsController.ListConversations)
	httpRouter.HandleFunc("POST /api/conversations", handlers.ConversationsController.CreateConversation)
	httpRouter.HandleFunc("GET /api/conversations/{sessionID}/history", handlers.ConversationsController.GetConversationHistory)
	httpRouter.HandleFunc("PUT /api/conversations/{sessionID}", handlers.ConversationsController.UpdateConversation)
	httpRouter.HandleFunc("DELETE /api/conversations/{sessionID}", handlers.ConversationsController.DeleteConversation)

	httpRouter.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	handler := cors.AllowAll().Handler(requestIDMiddleware(httpRouter, logger))

	logger.Info("Start Listening on port:" + cfg.Port)

	thisServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
		// No WriteTimeout: chat responses stream for as long as the model
		// keeps producing tokens.
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := thisServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	thisSignalChan := <-sigChan

	logger.Info("Graceful Shutdown", zap.String("signal", thisSignalChan.String()))

	timeOutContext, canFunct := context.WithTimeout(context.Background(), 5*time.Second)
	defer canFunct()

	_ = thisServer.Shutdown(timeOutContext)
}

func requestIDMiddleware(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewV4().String()
		w.Header().Set("X-Request-Id", requestID)
		logger.Debug("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
