package controller

import (
	"context"
	"testing"
	"time"

	"github.com/synapsechat/synapsechat/internal/gateway"
	"github.com/synapsechat/synapsechat/internal/model"
	"github.com/synapsechat/synapsechat/pkg/logger"
)

type fakeGateway struct {
	sendFunc     func(ctx context.Context, query, sessionID string) (gateway.ChatResult, error)
	historyFunc  func(ctx context.Context, sessionID string) ([]model.Message, bool)
	sessionsFunc func(ctx context.Context, userID string) []model.SessionSummary
	deleteFunc   func(ctx context.Context, sessionID, userID string) bool
}

func (f *fakeGateway) SendMessage(ctx context.Context, query, sessionID string) (gateway.ChatResult, error) {
	if f.sendFunc == nil {
		return gateway.ChatResult{}, nil
	}
	return f.sendFunc(ctx, query, sessionID)
}

func (f *fakeGateway) FetchHistory(ctx context.Context, sessionID string) ([]model.Message, bool) {
	if f.historyFunc == nil {
		return nil, true
	}
	return f.historyFunc(ctx, sessionID)
}

func (f *fakeGateway) FetchSessions(ctx context.Context, userID string) []model.SessionSummary {
	if f.sessionsFunc == nil {
		return nil
	}
	return f.sessionsFunc(ctx, userID)
}

func (f *fakeGateway) DeleteSession(ctx context.Context, sessionID, userID string) bool {
	if f.deleteFunc == nil {
		return true
	}
	return f.deleteFunc(ctx, sessionID, userID)
}

type memStore struct {
	id    string
	saved []string
}

func (m *memStore) Load() (string, bool) {
	return m.id, m.id != ""
}

func (m *memStore) Save(id string) error {
	m.id = id
	m.saved = append(m.saved, id)
	return nil
}

func newTestController(gw *fakeGateway, st *memStore) *Controller {
	return New(gw, st, "anonymous", logger.NewNop())
}

func summaries(ids ...string) []model.SessionSummary {
	out := make([]model.SessionSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.SessionSummary{SessionID: id, Title: "Chat " + id, UpdatedAt: time.Now()})
	}
	return out
}

func TestInitializeKeepsPersistedSessionWhenListed(t *testing.T) {
	gw := &fakeGateway{
		sessionsFunc: func(context.Context, string) []model.SessionSummary {
			return summaries("s-new", "s-old")
		},
		historyFunc: func(_ context.Context, sessionID string) ([]model.Message, bool) {
			return []model.Message{{Role: model.RoleUser, Content: "hi"}}, true
		},
	}
	st := &memStore{id: "s-old"}
	c := newTestController(gw, st)

	c.Initialize(context.Background())

	state := c.Snapshot()
	if state.SessionID != "s-old" {
		t.Errorf("SessionID = %q, want s-old", state.SessionID)
	}
	if len(state.Messages) != 1 {
		t.Errorf("len(Messages) = %d, want 1", len(state.Messages))
	}
	if len(st.saved) != 0 {
		t.Errorf("store saved %v, want no writes for an already valid id", st.saved)
	}
}

func TestInitializeAdoptsMostRecentWhenPersistedIDUnknown(t *testing.T) {
	gw := &fakeGateway{
		sessionsFunc: func(context.Context, string) []model.SessionSummary {
			return summaries("s-recent", "s-older")
		},
	}
	st := &memStore{id: "s-gone"}
	c := newTestController(gw, st)

	c.Initialize(context.Background())

	state := c.Snapshot()
	if state.SessionID != "s-recent" {
		t.Errorf("SessionID = %q, want s-recent", state.SessionID)
	}
	if st.id != "s-recent" {
		t.Errorf("persisted id = %q, want s-recent", st.id)
	}
}

func TestInitializeMintsFreshIDWhenNoSessions(t *testing.T) {
	gw := &fakeGateway{}
	st := &memStore{}
	c := newTestController(gw, st)

	c.Initialize(context.Background())

	state := c.Snapshot()
	if state.SessionID == "" {
		t.Fatal("SessionID is empty, want a freshly minted id")
	}
	if st.id != state.SessionID {
		t.Errorf("persisted id = %q, want %q", st.id, state.SessionID)
	}
	if len(state.Messages) != 0 {
		t.Errorf("len(Messages) = %d, want 0", len(state.Messages))
	}
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	called := false
	gw := &fakeGateway{
		sendFunc: func(context.Context, string, string) (gateway.ChatResult, error) {
			called = true
			return gateway.ChatResult{}, nil
		},
	}
	c := newTestController(gw, &memStore{})
	c.state.SessionID = "s1"

	for _, q := range []string{"", "   ", "\n\t"} {
		if c.Submit(context.Background(), q) {
			t.Errorf("Submit(%q) accepted, want rejected", q)
		}
	}
	if called {
		t.Error("gateway was invoked for blank input")
	}
	if n := len(c.Snapshot().Messages); n != 0 {
		t.Errorf("len(Messages) = %d, want 0", n)
	}
}

func TestSubmitAppendsUserAndAssistantMessages(t *testing.T) {
	gw := &fakeGateway{
		sendFunc: func(_ context.Context, query, sessionID string) (gateway.ChatResult, error) {
			return gateway.ChatResult{
				Content:   "A craniotomy is a surgical opening of the skull.",
				Source:    "Handbook of Neurosurgery",
				SessionID: sessionID,
			}, nil
		},
	}
	c := newTestController(gw, &memStore{id: "s1"})
	c.state.SessionID = "s1"

	if !c.Submit(context.Background(), "  What is a craniotomy?  ") {
		t.Fatal("Submit rejected a valid query")
	}

	state := c.Snapshot()
	if len(state.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(state.Messages))
	}
	if state.Messages[0].Role != model.RoleUser || state.Messages[0].Content != "What is a craniotomy?" {
		t.Errorf("user message = %+v, want trimmed query", state.Messages[0])
	}
	if state.Messages[1].Role != model.RoleAssistant || state.Messages[1].Source != "Handbook of Neurosurgery" {
		t.Errorf("assistant message = %+v", state.Messages[1])
	}
	if state.LoadingMessage {
		t.Error("LoadingMessage still set after submit resolved")
	}
}

func TestSubmitAdoptsBackendSessionID(t *testing.T) {
	gw := &fakeGateway{
		sendFunc: func(context.Context, string, string) (gateway.ChatResult, error) {
			return gateway.ChatResult{Content: "answer", SessionID: "s-backend"}, nil
		},
	}
	st := &memStore{id: "s-local"}
	c := newTestController(gw, st)
	c.state.SessionID = "s-local"

	c.Submit(context.Background(), "hello")

	if got := c.Snapshot().SessionID; got != "s-backend" {
		t.Errorf("SessionID = %q, want s-backend", got)
	}
	if st.id != "s-backend" {
		t.Errorf("persisted id = %q, want s-backend", st.id)
	}
}

func TestSubmitFailureAppendsApologyAndNotifies(t *testing.T) {
	gw := &fakeGateway{
		sendFunc: func(context.Context, string, string) (gateway.ChatResult, error) {
			return gateway.ChatResult{}, gateway.ErrEmptyQuery
		},
	}
	c := newTestController(gw, &memStore{})
	c.state.SessionID = "s1"

	var got []Notification
	c.SetNotifier(func(n Notification) { got = append(got, n) })

	c.Submit(context.Background(), "hello")

	state := c.Snapshot()
	if len(state.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want user message plus apology", len(state.Messages))
	}
	if state.Messages[1].Content != apologyText {
		t.Errorf("assistant content = %q, want apology", state.Messages[1].Content)
	}
	if len(got) != 1 || got[0].Severity != SeverityError {
		t.Errorf("notifications = %+v, want one error", got)
	}
	if state.SessionID != "s1" {
		t.Errorf("SessionID = %q, want unchanged s1", state.SessionID)
	}
}

func TestSubmitDiscardsResponseAfterSessionChanged(t *testing.T) {
	c := newTestController(nil, &memStore{})
	gw := &fakeGateway{}
	gw.sendFunc = func(context.Context, string, string) (gateway.ChatResult, error) {
		// The user starts a new chat while the request is in flight.
		c.NewChat()
		return gateway.ChatResult{Content: "late answer", SessionID: "s1"}, nil
	}
	c.gw = gw
	c.state.SessionID = "s1"

	c.Submit(context.Background(), "hello")

	state := c.Snapshot()
	for _, m := range state.Messages {
		if m.Content == "late answer" {
			t.Fatal("stale answer was applied to the new session")
		}
	}
	if state.SessionID == "s1" {
		t.Error("SessionID reverted to the superseded session")
	}
}

func TestSwitchSessionSwapsIDAndMessagesTogether(t *testing.T) {
	gw := &fakeGateway{
		historyFunc: func(_ context.Context, sessionID string) ([]model.Message, bool) {
			return []model.Message{{Role: model.RoleUser, Content: "from " + sessionID}}, true
		},
	}
	st := &memStore{}
	c := newTestController(gw, st)
	c.state.SessionID = "s1"
	c.state.Messages = []model.Message{{Role: model.RoleUser, Content: "old"}}

	c.SwitchSession(context.Background(), "s2")

	state := c.Snapshot()
	if state.SessionID != "s2" {
		t.Errorf("SessionID = %q, want s2", state.SessionID)
	}
	if len(state.Messages) != 1 || state.Messages[0].Content != "from s2" {
		t.Errorf("Messages = %+v, want history of s2", state.Messages)
	}
	if st.id != "s2" {
		t.Errorf("persisted id = %q, want s2", st.id)
	}
}

func TestSwitchSessionFailureStaysOnCurrent(t *testing.T) {
	gw := &fakeGateway{
		historyFunc: func(context.Context, string) ([]model.Message, bool) {
			return nil, false
		},
	}
	c := newTestController(gw, &memStore{id: "s1"})
	c.state.SessionID = "s1"
	c.state.Messages = []model.Message{{Role: model.RoleUser, Content: "kept"}}

	var got []Notification
	c.SetNotifier(func(n Notification) { got = append(got, n) })

	c.SwitchSession(context.Background(), "s2")

	state := c.Snapshot()
	if state.SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", state.SessionID)
	}
	if len(state.Messages) != 1 || state.Messages[0].Content != "kept" {
		t.Errorf("Messages = %+v, want untouched", state.Messages)
	}
	if len(got) != 1 || got[0].Severity != SeverityError {
		t.Errorf("notifications = %+v, want one error", got)
	}
}

func TestSwitchSessionSupersededResultDiscarded(t *testing.T) {
	c := newTestController(nil, &memStore{})
	gw := &fakeGateway{}
	gw.historyFunc = func(_ context.Context, sessionID string) ([]model.Message, bool) {
		if sessionID == "s2" {
			// A newer session change lands before this fetch resolves.
			c.NewChat()
		}
		return []model.Message{{Role: model.RoleUser, Content: "from " + sessionID}}, true
	}
	c.gw = gw
	c.state.SessionID = "s1"

	c.SwitchSession(context.Background(), "s2")

	if got := c.Snapshot().SessionID; got == "s2" {
		t.Error("superseded switch overwrote the newer session")
	}
}

func TestSwitchSessionSameTargetIsNoOp(t *testing.T) {
	called := false
	gw := &fakeGateway{
		historyFunc: func(context.Context, string) ([]model.Message, bool) {
			called = true
			return nil, true
		},
	}
	c := newTestController(gw, &memStore{})
	c.state.SessionID = "s1"

	c.SwitchSession(context.Background(), "s1")

	if called {
		t.Error("history was fetched for a switch to the active session")
	}
}

func TestNewChatClearsMessagesAndPersists(t *testing.T) {
	st := &memStore{id: "s1"}
	c := newTestController(&fakeGateway{}, st)
	c.state.SessionID = "s1"
	c.state.Messages = []model.Message{{Role: model.RoleUser, Content: "old"}}

	c.NewChat()

	state := c.Snapshot()
	if state.SessionID == "s1" || state.SessionID == "" {
		t.Errorf("SessionID = %q, want a fresh id", state.SessionID)
	}
	if len(state.Messages) != 0 {
		t.Errorf("len(Messages) = %d, want 0", len(state.Messages))
	}
	if st.id != state.SessionID {
		t.Errorf("persisted id = %q, want %q", st.id, state.SessionID)
	}
}

func TestDeleteSessionFailureLeavesStateUntouched(t *testing.T) {
	gw := &fakeGateway{
		deleteFunc: func(context.Context, string, string) bool { return false },
	}
	c := newTestController(gw, &memStore{})
	c.state.SessionID = "s1"
	c.state.Sessions = summaries("s1", "s2")

	var got []Notification
	c.SetNotifier(func(n Notification) { got = append(got, n) })

	c.DeleteSession(context.Background(), "s2")

	state := c.Snapshot()
	if len(state.Sessions) != 2 {
		t.Errorf("len(Sessions) = %d, want unchanged 2", len(state.Sessions))
	}
	if len(got) != 1 || got[0].Severity != SeverityError {
		t.Errorf("notifications = %+v, want one error", got)
	}
}

func TestDeleteInactiveSessionKeepsActiveThread(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestController(gw, &memStore{})
	c.state.SessionID = "s1"
	c.state.Messages = []model.Message{{Role: model.RoleUser, Content: "kept"}}
	c.state.Sessions = summaries("s1", "s2")

	c.DeleteSession(context.Background(), "s2")

	state := c.Snapshot()
	if state.SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", state.SessionID)
	}
	if len(state.Messages) != 1 {
		t.Errorf("len(Messages) = %d, want untouched 1", len(state.Messages))
	}
	if len(state.Sessions) != 1 || state.Sessions[0].SessionID != "s1" {
		t.Errorf("Sessions = %+v, want only s1", state.Sessions)
	}
}

func TestDeleteActiveSessionSwitchesToMostRecentRemaining(t *testing.T) {
	gw := &fakeGateway{
		historyFunc: func(_ context.Context, sessionID string) ([]model.Message, bool) {
			return []model.Message{{Role: model.RoleUser, Content: "from " + sessionID}}, true
		},
	}
	c := newTestController(gw, &memStore{})
	c.state.SessionID = "s1"
	c.state.Sessions = summaries("s1", "s2", "s3")

	c.DeleteSession(context.Background(), "s1")

	state := c.Snapshot()
	if state.SessionID != "s2" {
		t.Errorf("SessionID = %q, want most recent remaining s2", state.SessionID)
	}
	if len(state.Messages) != 1 || state.Messages[0].Content != "from s2" {
		t.Errorf("Messages = %+v, want history of s2", state.Messages)
	}
}

func TestDeleteLastSessionStartsFreshChat(t *testing.T) {
	st := &memStore{id: "s1"}
	c := newTestController(&fakeGateway{}, st)
	c.state.SessionID = "s1"
	c.state.Messages = []model.Message{{Role: model.RoleUser, Content: "old"}}
	c.state.Sessions = summaries("s1")

	c.DeleteSession(context.Background(), "s1")

	state := c.Snapshot()
	if state.SessionID == "s1" || state.SessionID == "" {
		t.Errorf("SessionID = %q, want a fresh id", state.SessionID)
	}
	if len(state.Messages) != 0 {
		t.Errorf("len(Messages) = %d, want 0", len(state.Messages))
	}
	if len(state.Sessions) != 0 {
		t.Errorf("len(Sessions) = %d, want 0", len(state.Sessions))
	}
}

func TestRefreshSessionsReplacesList(t *testing.T) {
	gw := &fakeGateway{
		sessionsFunc: func(context.Context, string) []model.SessionSummary {
			return summaries("s1", "s2")
		},
	}
	c := newTestController(gw, &memStore{})

	c.RefreshSessions(context.Background())

	state := c.Snapshot()
	if len(state.Sessions) != 2 {
		t.Errorf("len(Sessions) = %d, want 2", len(state.Sessions))
	}
	if state.LoadingSessions {
		t.Error("LoadingSessions still set after refresh resolved")
	}
}
