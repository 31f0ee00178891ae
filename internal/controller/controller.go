// Package controller owns the client's in-memory chat state and the
// protocols that mutate it: initialization, message submission, session
// switching, session creation, and session deletion. The backend remains
// the durable source of truth; the controller reconciles the locally
// persisted session identity against it and guards against out-of-order
// async results.
package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/synapsechat/synapsechat/internal/gateway"
	"github.com/synapsechat/synapsechat/internal/model"
	"github.com/synapsechat/synapsechat/pkg/logger"
)

// apologyText is appended as an assistant message when a submit fails
// before the gateway could produce an in-band answer.
const apologyText = "Sorry, something went wrong. Please try again."

// Gateway is the slice of the backend gateway the controller depends on.
type Gateway interface {
	SendMessage(ctx context.Context, query, sessionID string) (gateway.ChatResult, error)
	FetchHistory(ctx context.Context, sessionID string) ([]model.Message, bool)
	FetchSessions(ctx context.Context, userID string) []model.SessionSummary
	DeleteSession(ctx context.Context, sessionID, userID string) bool
}

// SessionStore persists the active session id across restarts.
type SessionStore interface {
	Load() (string, bool)
	Save(id string) error
}

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

// Notification is a toast-style message surfaced to the user.
type Notification struct {
	Severity Severity
	Title    string
	Message  string
}

// Notifier receives notifications. May be nil.
type Notifier func(Notification)

// State is a snapshot of the controller's mutable state.
type State struct {
	SessionID       string
	Messages        []model.Message
	Sessions        []model.SessionSummary
	LoadingMessage  bool
	LoadingHistory  bool
	LoadingSessions bool
}

// Controller reconciles local session identity, message history, and the
// backend's authoritative session list. Methods are safe for concurrent
// use; the UI invokes them from background commands.
type Controller struct {
	gw     Gateway
	store  SessionStore
	logger *logger.Logger
	userID string
	notify Notifier

	mu    sync.Mutex
	state State
	// generation is bumped whenever the active session changes. Async
	// results snapshot it before I/O and are discarded if it moved on.
	generation uint64
	// sessionsSeq orders session-list refreshes so a superseded fetch
	// cannot overwrite a newer list.
	sessionsSeq     uint64
	lastSessionsSeq uint64

	onChange func()
}

// New creates a controller. userID defaults to the gateway's anonymous user.
func New(gw Gateway, store SessionStore, userID string, log *logger.Logger) *Controller {
	if userID == "" {
		userID = gateway.DefaultUserID
	}
	return &Controller{
		gw:     gw,
		store:  store,
		logger: log,
		userID: userID,
	}
}

// SetNotifier installs the notification sink.
func (c *Controller) SetNotifier(n Notifier) {
	c.notify = n
}

// SetOnChange installs a callback invoked after every state change, for
// UIs that re-render on demand.
func (c *Controller) SetOnChange(fn func()) {
	c.onChange = fn
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Messages = append([]model.Message(nil), c.state.Messages...)
	s.Sessions = append([]model.SessionSummary(nil), c.state.Sessions...)
	return s
}

// Initialize runs the mount-time reconciliation protocol: fetch the
// authoritative session list, resolve the locally persisted session id
// against it, and load that session's history. Partial state is acceptable;
// the method never fails.
func (c *Controller) Initialize(ctx context.Context) {
	c.mu.Lock()
	c.state.LoadingSessions = true
	c.state.LoadingHistory = true
	gen := c.generation
	c.mu.Unlock()
	c.changed()

	sessions := c.gw.FetchSessions(ctx, c.userID)

	local, ok := c.store.Load()
	active := local
	if !ok || !containsSession(sessions, local) {
		if len(sessions) > 0 {
			// Backend returns most recently updated first.
			active = sessions[0].SessionID
		} else {
			active = uuid.NewString()
		}
		if err := c.store.Save(active); err != nil {
			c.logger.Warn("failed to persist session id", zap.Error(err))
		}
	}

	history, _ := c.gw.FetchHistory(ctx, active)

	c.mu.Lock()
	if c.generation != gen {
		// The user already moved on; drop the init results.
		c.state.LoadingSessions = false
		c.state.LoadingHistory = false
		c.mu.Unlock()
		c.changed()
		return
	}
	c.state.SessionID = active
	c.state.Sessions = sessions
	c.state.Messages = history
	c.state.LoadingSessions = false
	c.state.LoadingHistory = false
	c.mu.Unlock()
	c.changed()
}

// Submit runs the message-submission protocol for query q. Empty or
// whitespace-only input, an in-flight submit, and an unresolved session id
// are all rejected without touching state; the return value reports whether
// the submit was accepted.
func (c *Controller) Submit(ctx context.Context, q string) bool {
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return false
	}

	c.mu.Lock()
	if c.state.LoadingMessage || c.state.SessionID == "" {
		c.mu.Unlock()
		return false
	}
	sid := c.state.SessionID
	c.state.Messages = append(c.state.Messages, model.Message{
		ID:      uuid.NewString(),
		Role:    model.RoleUser,
		Content: trimmed,
	})
	c.state.LoadingMessage = true
	c.mu.Unlock()
	c.changed()

	result, err := c.gw.SendMessage(ctx, trimmed, sid)

	c.mu.Lock()
	c.state.LoadingMessage = false
	if err != nil {
		// Contract violation escaped the gateway; keep the optimistic
		// user message and apologize in-band.
		c.state.Messages = append(c.state.Messages, model.Message{
			ID:      uuid.NewString(),
			Role:    model.RoleAssistant,
			Content: apologyText,
		})
		c.mu.Unlock()
		c.changed()
		c.logger.Error("send failed", zap.Error(err))
		c.send(Notification{
			Severity: SeverityError,
			Title:    "An error occurred",
			Message:  "Failed to get a response from the AI.",
		})
		return true
	}

	if c.state.SessionID != sid {
		// The active session changed while the request was in flight;
		// this answer belongs to a thread we are no longer showing.
		c.mu.Unlock()
		c.changed()
		c.logger.Debug("discarding stale chat response", zap.String("session_id", sid))
		return true
	}

	c.state.Messages = append(c.state.Messages, model.Message{
		ID:      uuid.NewString(),
		Role:    model.RoleAssistant,
		Content: result.Content,
		Source:  result.Source,
	})
	if result.SessionID != "" && result.SessionID != sid {
		// The backend minted an id for a fresh session; adopt it.
		c.state.SessionID = result.SessionID
		c.generation++
		if err := c.store.Save(result.SessionID); err != nil {
			c.logger.Warn("failed to persist session id", zap.Error(err))
		}
	}
	c.mu.Unlock()
	c.changed()

	// The session list is refreshed in full after every turn; the UI does
	// not block on it.
	go c.RefreshSessions(context.WithoutCancel(ctx))

	return true
}

// RefreshSessions replaces the session list with a fresh fetch. A refresh
// superseded by a newer one is dropped.
func (c *Controller) RefreshSessions(ctx context.Context) {
	c.mu.Lock()
	c.sessionsSeq++
	seq := c.sessionsSeq
	c.state.LoadingSessions = true
	c.mu.Unlock()
	c.changed()

	sessions := c.gw.FetchSessions(ctx, c.userID)

	c.mu.Lock()
	if seq < c.lastSessionsSeq {
		c.mu.Unlock()
		return
	}
	c.lastSessionsSeq = seq
	c.state.Sessions = sessions
	c.state.LoadingSessions = false
	c.mu.Unlock()
	c.changed()
}

// SwitchSession runs the session-switch protocol. The message list and
// active id swap together only once the target's history arrives; a failed
// fetch leaves the prior session intact, and a switch superseded by a newer
// one discards its result.
func (c *Controller) SwitchSession(ctx context.Context, target string) {
	c.mu.Lock()
	if target == "" || target == c.state.SessionID {
		c.mu.Unlock()
		return
	}
	c.generation++
	gen := c.generation
	c.state.LoadingHistory = true
	c.mu.Unlock()
	c.changed()

	history, ok := c.gw.FetchHistory(ctx, target)

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded history fetch", zap.String("session_id", target))
		return
	}
	if !ok {
		c.state.LoadingHistory = false
		c.mu.Unlock()
		c.changed()
		c.send(Notification{
			Severity: SeverityError,
			Title:    "Could not load session",
			Message:  "Failed to fetch chat history. Staying on the current session.",
		})
		return
	}
	c.state.SessionID = target
	c.state.Messages = history
	c.state.LoadingHistory = false
	c.mu.Unlock()
	c.changed()

	if err := c.store.Save(target); err != nil {
		c.logger.Warn("failed to persist session id", zap.Error(err))
	}
}

// NewChat starts a fresh session locally. The backend creates the session
// implicitly on the first message, so no request is made here.
func (c *Controller) NewChat() {
	id := uuid.NewString()

	c.mu.Lock()
	c.state.SessionID = id
	c.state.Messages = nil
	c.generation++
	c.mu.Unlock()
	c.changed()

	if err := c.store.Save(id); err != nil {
		c.logger.Warn("failed to persist session id", zap.Error(err))
	}
}

// DeleteSession runs the delete protocol. State changes only after the
// backend confirms the delete; if the active session was removed, the
// controller switches to the most recent remaining session or starts a
// fresh one.
func (c *Controller) DeleteSession(ctx context.Context, target string) {
	if !c.gw.DeleteSession(ctx, target, c.userID) {
		c.send(Notification{
			Severity: SeverityError,
			Title:    "Delete failed",
			Message:  "The backend did not confirm the delete. Nothing was changed.",
		})
		return
	}

	c.mu.Lock()
	remaining := c.state.Sessions[:0:0]
	for _, s := range c.state.Sessions {
		if s.SessionID != target {
			remaining = append(remaining, s)
		}
	}
	c.state.Sessions = remaining
	wasActive := c.state.SessionID == target
	var next string
	if wasActive && len(remaining) > 0 {
		next = remaining[0].SessionID
	}
	c.mu.Unlock()
	c.changed()

	if wasActive {
		if next != "" {
			c.SwitchSession(ctx, next)
		} else {
			c.NewChat()
		}
	}

	c.send(Notification{
		Severity: SeveritySuccess,
		Title:    "Session deleted",
		Message:  "The conversation was removed.",
	})
}

func (c *Controller) send(n Notification) {
	if c.notify != nil {
		c.notify(n)
	}
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func containsSession(sessions []model.SessionSummary, id string) bool {
	for _, s := range sessions {
		if s.SessionID == id {
			return true
		}
	}
	return false
}
