// Package gateway provides typed wrappers around the SynapseChat backend
// HTTP API. Every method is total: expected failures (network errors,
// non-2xx responses) are converted into safe fallback values rather than
// returned as errors, so callers never need try/catch around I/O.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/synapsechat/synapsechat/internal/model"
	"github.com/synapsechat/synapsechat/pkg/logger"
)

// DefaultUserID is used when the caller does not provide a user id.
const DefaultUserID = "anonymous"

// User-facing fallback texts for failed chat turns.
const (
	connectivityErrorText = "Unable to connect to the AI service. Please check if the backend server is running and try again."
	genericErrorText      = "Sorry, I encountered an unexpected error while processing your request. Please try again later."
)

// ErrEmptyQuery reports a caller-contract violation: an empty or
// whitespace-only query must be rejected before any I/O.
var ErrEmptyQuery = errors.New("query cannot be empty")

// ChatResult is the outcome of a chat turn. Failures are encoded in-band:
// Content always holds displayable text, and SessionID is empty when the
// backend did not confirm the turn.
type ChatResult struct {
	Content   string
	Source    string
	SessionID string
}

// Client talks to the SynapseChat backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
	tracer  trace.Tracer
}

// New creates a gateway client for the given base URL.
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log,
		tracer:  otel.Tracer("synapsechat/gateway"),
	}
}

// SendMessage submits a chat turn. It returns ErrEmptyQuery if the query is
// empty after trimming; every other failure is reported through the result's
// Content text so the caller can render it as an assistant message.
func (c *Client) SendMessage(ctx context.Context, query, sessionID string) (ChatResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return ChatResult{}, ErrEmptyQuery
	}

	ctx, span := c.tracer.Start(ctx, "gateway.SendMessage",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	body, err := json.Marshal(model.ChatRequest{Query: query, SessionID: sessionID})
	if err != nil {
		c.logger.Error("failed to encode chat request", zap.Error(err))
		return ChatResult{Content: genericErrorText}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		c.logger.Error("failed to build chat request", zap.Error(err))
		return ChatResult{Content: genericErrorText}, nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable", zap.Error(err))
		return ChatResult{Content: connectivityErrorText}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(resp.Body, resp.StatusCode)
		c.logger.Warn("chat request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return ChatResult{Content: fmt.Sprintf("Sorry, I encountered an error: %s. Please try again later.", detail)}, nil
	}

	var chatResp model.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		c.logger.Error("failed to decode chat response", zap.Error(err))
		return ChatResult{Content: genericErrorText}, nil
	}

	return ChatResult{
		Content:   chatResp.Answer,
		Source:    chatResp.Source,
		SessionID: chatResp.SessionID,
	}, nil
}

// FetchHistory returns the ordered message history for a session. History
// loss is non-fatal: any failure yields an empty slice and a log entry. The
// boolean reports whether the backend confirmed the fetch, for callers that
// must distinguish an empty thread from a failed one.
func (c *Client) FetchHistory(ctx context.Context, sessionID string) ([]model.Message, bool) {
	ctx, span := c.tracer.Start(ctx, "gateway.FetchHistory",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	var historyResp model.HistoryResponse
	if !c.getJSON(ctx, "/api/chat/"+url.PathEscape(sessionID), &historyResp) {
		return nil, false
	}
	return historyResp.Messages, true
}

// FetchSessions returns the user's sessions, most recently updated first.
// On failure it returns an empty slice.
func (c *Client) FetchSessions(ctx context.Context, userID string) []model.SessionSummary {
	if userID == "" {
		userID = DefaultUserID
	}

	ctx, span := c.tracer.Start(ctx, "gateway.FetchSessions")
	defer span.End()

	var listResp model.ListSessionsResponse
	if !c.getJSON(ctx, "/api/sessions?user_id="+url.QueryEscape(userID), &listResp) {
		return nil
	}
	return listResp.Sessions
}

// DeleteSession deletes a session. It reports success as a boolean and
// never returns an error.
func (c *Client) DeleteSession(ctx context.Context, sessionID, userID string) bool {
	if userID == "" {
		userID = DefaultUserID
	}

	ctx, span := c.tracer.Start(ctx, "gateway.DeleteSession",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	path := "/api/chat/" + url.PathEscape(sessionID) + "?user_id=" + url.QueryEscape(userID)
	return c.delete(ctx, path)
}

// getJSON performs a GET and decodes a 2xx JSON body into out. It reports
// success as a boolean and logs all failures.
func (c *Client) getJSON(ctx context.Context, path string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		c.logger.Error("failed to build request", zap.String("path", path), zap.Error(err))
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("path", path), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("unexpected status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("failed to decode response", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// delete performs a DELETE and reports whether the backend confirmed it.
func (c *Client) delete(ctx context.Context, path string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		c.logger.Error("failed to build request", zap.String("path", path), zap.Error(err))
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("delete failed", zap.String("path", path), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("delete rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}

// decodeDetail extracts the backend's error detail from a non-2xx body,
// falling back to a status description when the body is not parseable.
func decodeDetail(body io.Reader, status int) string {
	var errResp model.ErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err == nil && errResp.Detail != "" {
		return errResp.Detail
	}
	return fmt.Sprintf("backend request failed with status %d", status)
}
