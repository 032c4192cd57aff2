package clients

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/propdash/propdash/models"
)

// DefaultSessionTitle is used when the caller supplies no title; the session
// service replaces it with a title derived from the first message.
const DefaultSessionTitle = "New Conversation"

// SessionClient talks to the conversation session service. It reports every
// failure to its caller; deciding which failures are allowed to degrade a
// turn is the orchestrator's job, not the client's.
type SessionClient struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewSessionClient(baseURL string, timeout time.Duration, logger *zap.Logger) *SessionClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &SessionClient{http: client, logger: logger}
}

type createSessionRequest struct {
	UserID    string `json:"user_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Title     string `json:"title"`
}

type appendMessageRequest struct {
	Content  string         `json:"content"`
	Sender   string         `json:"sender"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HistoryResponse is the session service's full-history reply.
type HistoryResponse struct {
	Session       models.Session   `json:"session"`
	Messages      []models.Message `json:"messages"`
	TotalMessages int              `json:"total_messages"`
}

func (c *SessionClient) CreateSession(ctx context.Context, userID, userEmail, title string) (*models.Session, error) {
	if title == "" {
		title = DefaultSessionTitle
	}

	var session models.Session
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createSessionRequest{UserID: userID, UserEmail: userEmail, Title: title}).
		SetResult(&session).
		Post("/sessions")
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, statusErr(resp)
	}
	return &session, nil
}

func (c *SessionClient) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&session).
		Get("/sessions/" + sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	if !resp.IsSuccess() {
		return nil, statusErr(resp)
	}
	return &session, nil
}

// GetHistory returns the session plus its messages in conversation order.
func (c *SessionClient) GetHistory(ctx context.Context, sessionID string) (*HistoryResponse, error) {
	var history HistoryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&history).
		Get("/sessions/" + sessionID + "/history")
	if err != nil {
		return nil, fmt.Errorf("get history %s: %w", sessionID, err)
	}
	if !resp.IsSuccess() {
		return nil, statusErr(resp)
	}
	return &history, nil
}

func (c *SessionClient) AppendMessage(ctx context.Context, sessionID, content, sender string, metadata map[string]any) (*models.Message, error) {
	var message models.Message
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(appendMessageRequest{Content: content, Sender: sender, Metadata: metadata}).
		SetResult(&message).
		Post("/sessions/" + sessionID + "/messages")
	if err != nil {
		return nil, fmt.Errorf("append %s message to %s: %w", sender, sessionID, err)
	}
	if !resp.IsSuccess() {
		return nil, statusErr(resp)
	}
	return &message, nil
}

// ListSessions looks up sessions by user id, then user email, then falls back
// to the most recent sessions overall when neither is supplied.
func (c *SessionClient) ListSessions(ctx context.Context, userID, userEmail string, limit, skip int) ([]models.Session, error) {
	params := map[string]string{
		"limit": strconv.Itoa(limit),
		"skip":  strconv.Itoa(skip),
	}
	switch {
	case userID != "":
		params["user_id"] = userID
	case userEmail != "":
		params["user_email"] = userEmail
	}

	var out struct {
		Sessions []models.Session `json:"sessions"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/sessions")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, statusErr(resp)
	}
	return out.Sessions, nil
}

func (c *SessionClient) UpdateSession(ctx context.Context, sessionID string, update models.SessionUpdate) (*models.Session, error) {
	var session models.Session
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(update).
		SetResult(&session).
		Put("/sessions/" + sessionID)
	if err != nil {
		return nil, fmt.Errorf("update session %s: %w", sessionID, err)
	}
	if !resp.IsSuccess() {
		return nil, statusErr(resp)
	}
	return &session, nil
}

func (c *SessionClient) DeleteSession(ctx context.Context, sessionID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/sessions/" + sessionID)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	if !resp.IsSuccess() {
		return statusErr(resp)
	}
	return nil
}
