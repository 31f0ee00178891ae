// Package stub provides an in-memory stand-in for the SynapseChat backend
// API, used for local development and as a test harness. It returns canned
// answers and performs no retrieval.
package stub

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/synapsechat/synapsechat/internal/model"
	"github.com/synapsechat/synapsechat/pkg/metrics"
)

type session struct {
	id        string
	userID    string
	title     string
	createdAt time.Time
	updatedAt time.Time
	messages  []model.Message
}

type document struct {
	model.Document
	userID string
}

// state holds all stub data behind a single lock.
type state struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	documents map[string]*document
}

func newState() *state {
	return &state{
		sessions:  make(map[string]*session),
		documents: make(map[string]*document),
	}
}

// appendTurn records a user/assistant exchange, creating the session on
// first use. It returns the session id actually used.
func (s *state) appendTurn(sessionID, userID, query, answer, source string) string {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		sess = &session{
			id:        sessionID,
			userID:    userID,
			title:     deriveTitle(query),
			createdAt: now,
		}
		s.sessions[sessionID] = sess
		metrics.SessionsActive.Set(float64(len(s.sessions)))
	}

	sess.messages = append(sess.messages,
		model.Message{ID: uuid.NewString(), Role: model.RoleUser, Content: query},
		model.Message{ID: uuid.NewString(), Role: model.RoleAssistant, Content: answer, Source: source},
	)
	sess.updatedAt = now

	return sessionID
}

// history returns a copy of a session's messages. Unknown sessions read as
// empty threads.
func (s *state) history(sessionID string) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	return append([]model.Message(nil), sess.messages...)
}

// listSessions returns a user's sessions, most recently updated first.
func (s *state) listSessions(userID string) []model.SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.SessionSummary
	for _, sess := range s.sessions {
		if sess.userID != userID {
			continue
		}
		out = append(out, model.SessionSummary{
			SessionID:    sess.id,
			Title:        sess.title,
			CreatedAt:    sess.createdAt,
			UpdatedAt:    sess.updatedAt,
			MessageCount: len(sess.messages),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// deleteSession removes a session owned by userID.
func (s *state) deleteSession(sessionID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.userID != userID {
		return false
	}
	delete(s.sessions, sessionID)
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return true
}

// addDocument stores an uploaded document's metadata.
func (s *state) addDocument(userID, filename, mimeType string, size int64) model.Document {
	now := time.Now().UTC()
	doc := model.Document{
		ID:        uuid.NewString(),
		Filename:  filename,
		FileSize:  size,
		MimeType:  mimeType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.documents[doc.ID] = &document{Document: doc, userID: userID}
	metrics.DocumentsStored.Set(float64(len(s.documents)))
	s.mu.Unlock()

	return doc
}

// listDocuments returns a user's documents, newest first.
func (s *state) listDocuments(userID string) []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Document
	for _, doc := range s.documents {
		if doc.userID == userID {
			out = append(out, doc.Document)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// deleteDocument removes a document owned by userID.
func (s *state) deleteDocument(id, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok || doc.userID != userID {
		return false
	}
	delete(s.documents, id)
	metrics.DocumentsStored.Set(float64(len(s.documents)))
	return true
}

// deriveTitle builds a session title from the first query.
func deriveTitle(query string) string {
	words := strings.Fields(query)
	if len(words) > 5 {
		return strings.Join(words[:5], " ") + "..."
	}
	return query
}
