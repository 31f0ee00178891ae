package stub

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/synapsechat/synapsechat/internal/model"
	"github.com/synapsechat/synapsechat/pkg/logger"
	"github.com/synapsechat/synapsechat/pkg/metrics"
)

// maxUploadBytes bounds document uploads.
const maxUploadBytes = 25 << 20

// Server is the in-memory backend stand-in.
type Server struct {
	state  *state
	logger *logger.Logger
}

// Options configure the stub's middleware.
type Options struct {
	RateLimit       int
	RateLimitWindow time.Duration
}

// New creates a stub server.
func New(log *logger.Logger) *Server {
	return &Server{
		state:  newState(),
		logger: log,
	}
}

// Router builds the chi router implementing the backend API surface.
func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))
	if opts.RateLimit > 0 {
		r.Use(rateLimit(opts.RateLimit, opts.RateLimitWindow))
	}

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/chat/{session_id}", s.handleHistory)
		r.Delete("/chat/{session_id}", s.handleDeleteSession)
		r.Get("/sessions", s.handleListSessions)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/upload", s.handleUpload)
			r.Delete("/{id}", s.handleDeleteDocument)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "synapsechat-stub",
	})
}

// handleChat answers POST /api/chat with a canned response, creating the
// session implicitly when no id is supplied.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeDetail(w, http.StatusBadRequest, "Query cannot be empty")
		return
	}

	userID := userIDOrDefault(r.URL.Query().Get("user_id"))
	answer, source := answerFor(query)
	sessionID := s.state.appendTurn(req.SessionID, userID, query, answer, source)
	metrics.ChatTurnsTotal.Inc()

	writeJSON(w, http.StatusOK, model.ChatResponse{
		Answer:    answer,
		Source:    source,
		SessionID: sessionID,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	writeJSON(w, http.StatusOK, model.HistoryResponse{
		Messages:  s.state.history(sessionID),
		SessionID: sessionID,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID := userIDOrDefault(r.URL.Query().Get("user_id"))
	writeJSON(w, http.StatusOK, model.ListSessionsResponse{
		Sessions: s.state.listSessions(userID),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	userID := userIDOrDefault(r.URL.Query().Get("user_id"))

	if !s.state.deleteSession(sessionID, userID) {
		writeDetail(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	userID := userIDOrDefault(r.FormValue("user_id"))
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	doc := s.state.addDocument(userID, header.Filename, mimeType, header.Size)
	s.logger.Info("document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("filename", doc.Filename),
		zap.Int64("size", doc.FileSize))

	writeJSON(w, http.StatusOK, model.UploadResponse{
		Success:  true,
		Message:  "Document uploaded successfully",
		Document: &doc,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID := userIDOrDefault(r.URL.Query().Get("user_id"))
	writeJSON(w, http.StatusOK, model.ListDocumentsResponse{
		Documents: s.state.listDocuments(userID),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := userIDOrDefault(r.URL.Query().Get("user_id"))

	if !s.state.deleteDocument(id, userID) {
		writeDetail(w, http.StatusNotFound, "document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userIDOrDefault(userID string) string {
	if userID == "" {
		return "anonymous"
	}
	return userID
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDetail writes the backend's error payload shape.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}
