// Package main implements a mock clarifying question service for offline
// development and integration tests. It serves the same REST and SSE API as
// the real service, backed by a canned question catalog and an in-memory
// session store, so SDK runs stay fast, deterministic, and offline-capable.
//
// Usage:
//
//	mock-clarify -port 3000 -frame-delay 200ms
//
// When -api-key is set (or MOCK_CLARIFY_API_KEY), every /api/* request must
// carry the matching bearer token. /health is always public.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// startMessage is the payload of the SSE start frame.
const startMessage = "Generating questions"

// --- Wire types ---
//
// These mirror the service contract rather than importing the SDK's types:
// the mock is the other side of the wire, and keeping its shapes independent
// means integration runs exercise the real contract.

type question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Options  []string `json:"options"`
}

type progress struct {
	Answered   int     `json:"answered"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type generateRequest struct {
	TaskDescription string `json:"taskDescription"`
}

type generateResponse struct {
	SessionID string     `json:"sessionId"`
	Questions []question `json:"questions"`
}

type answerRequest struct {
	SessionID  string `json:"sessionId"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type answerResponse struct {
	Progress progress `json:"progress"`
}

type contextResponse struct {
	TaskDescription string            `json:"taskDescription"`
	SessionID       string            `json:"sessionId"`
	Questions       []question        `json:"questions"`
	Responses       map[string]string `json:"responses"`
	Progress        progress          `json:"progress"`
}

type sessionSummary struct {
	SessionID       string   `json:"sessionId"`
	TaskDescription string   `json:"taskDescription"`
	Progress        progress `json:"progress"`
}

type sessionsResponse struct {
	Sessions []sessionSummary `json:"sessions"`
}

type startPayload struct {
	Message string `json:"message"`
}

type completePayload struct {
	SessionID     string `json:"sessionId"`
	QuestionCount int    `json:"questionCount"`
}

// --- Session store ---

type session struct {
	id        string
	task      string
	questions []question
	responses map[string]string
	createdAt time.Time
}

func (s *session) progress() progress {
	total := len(s.questions)
	answered := len(s.responses)

	var percentage float64
	if total > 0 {
		percentage = math.Round(float64(answered)/float64(total)*1000) / 10
	}

	return progress{Answered: answered, Total: total, Percentage: percentage}
}

type server struct {
	log        *slog.Logger
	apiKey     string
	frameDelay time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

func newServer(log *slog.Logger, apiKey string, frameDelay time.Duration) *server {
	return &server{
		log:        log,
		apiKey:     apiKey,
		frameDelay: frameDelay,
		sessions:   make(map[string]*session),
	}
}

// questionCatalog is the canned clarifying question set served for every
// task. Constant ids keep runs reproducible.
func questionCatalog() []question {
	return []question{
		{
			ID:       "q_1",
			Text:     "What platform should this run on?",
			Category: "platform",
			Options:  []string{"Web application", "Desktop application", "Mobile app", "Command line tool"},
		},
		{
			ID:       "q_2",
			Text:     "Should data persist between sessions?",
			Category: "persistence",
			Options:  []string{"Yes, in a database", "Yes, in local files", "No, in-memory only"},
		},
		{
			ID:       "q_3",
			Text:     "Who is the primary audience?",
			Category: "audience",
			Options:  []string{"Students and beginners", "Professional developers", "General public"},
		},
		{
			ID:       "q_4",
			Text:     "Does it need user accounts?",
			Category: "authentication",
			Options:  []string{"Yes, with login", "No, anonymous use"},
		},
		{
			ID:       "q_5",
			Text:     "How polished should the interface be?",
			Category: "design",
			Options:  []string{"Minimal and functional", "Fully styled and responsive"},
		},
	}
}

func (s *server) createSession(task string, questions []question) *session {
	sess := &session{
		id:        uuid.NewString(),
		task:      task,
		questions: questions,
		responses: make(map[string]string),
		createdAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.Info("Session created", "session_id", sess.id, "questions", len(questions))

	return sess
}

// --- HTTP ---

func (s *server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/generate", s.handleGenerate)
		r.Get("/stream", s.handleStream)
		r.Post("/answer", s.handleAnswer)
		r.Get("/context/{sessionID}", s.handleContext)
		r.Get("/sessions", s.handleSessions)
	})

	return r
}

// requireAuth enforces the bearer token on /api routes when one is
// configured. Without a configured key the mock is open.
func (s *server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+s.apiKey {
			writeError(w, http.StatusUnauthorized, "unauthorized")

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))

		return
	}

	if strings.TrimSpace(req.TaskDescription) == "" {
		writeError(w, http.StatusBadRequest, "taskDescription is required")

		return
	}

	sess := s.createSession(req.TaskDescription, questionCatalog())

	writeJSON(w, http.StatusOK, generateResponse{
		SessionID: sess.id,
		Questions: sess.questions,
	})
}

func (s *server) handleStream(w http.ResponseWriter, r *http.Request) {
	task := r.URL.Query().Get("taskDescription")
	if strings.TrimSpace(task) == "" {
		writeError(w, http.StatusBadRequest, "taskDescription is required")

		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"error": "streaming not supported"}`, http.StatusInternalServerError)

		return
	}

	questions := questionCatalog()

	if !s.emit(w, flusher, "start", startPayload{Message: startMessage}) {
		return
	}

	for _, q := range questions {
		if !s.pause(r.Context()) {
			s.log.Debug("Stream client disconnected", "delivered", q.ID)

			return
		}

		if !s.emit(w, flusher, "question", q) {
			return
		}
	}

	// The session exists before the complete frame declares its id, so a
	// client acting on the frame immediately will find it.
	sess := s.createSession(task, questions)

	if !s.pause(r.Context()) {
		return
	}

	s.emit(w, flusher, "complete", completePayload{
		SessionID:     sess.id,
		QuestionCount: len(questions),
	})
}

func (s *server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[req.SessionID]
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")

		return
	}

	if !slices.ContainsFunc(sess.questions, func(q question) bool { return q.ID == req.QuestionID }) {
		writeError(w, http.StatusBadRequest, "unknown question: "+req.QuestionID)

		return
	}

	sess.responses[req.QuestionID] = req.Answer

	writeJSON(w, http.StatusOK, answerResponse{Progress: sess.progress()})
}

func (s *server) handleContext(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")

		return
	}

	writeJSON(w, http.StatusOK, contextResponse{
		TaskDescription: sess.task,
		SessionID:       sess.id,
		Questions:       sess.questions,
		Responses:       sess.responses,
		Progress:        sess.progress(),
	})
}

func (s *server) handleSessions(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	slices.SortFunc(all, func(a, b *session) int { return a.createdAt.Compare(b.createdAt) })

	resp := sessionsResponse{Sessions: make([]sessionSummary, 0, len(all))}
	for _, sess := range all {
		resp.Sessions = append(resp.Sessions, sessionSummary{
			SessionID:       sess.id,
			TaskDescription: sess.task,
			Progress:        sess.progress(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// emit marshals payload and writes one SSE frame, reporting whether the
// client is still there.
func (s *server) emit(w http.ResponseWriter, flusher http.Flusher, event string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("Failed to marshal frame payload", "event", event, "error", err)

		return false
	}

	if err := writeSSE(w, event, string(data)); err != nil {
		s.log.Debug("Failed to write frame", "event", event, "error", err)

		return false
	}

	flusher.Flush()

	return true
}

// pause waits one frame delay, reporting false when the client went away.
func (s *server) pause(ctx context.Context) bool {
	if s.frameDelay <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.frameDelay):
		return true
	}
}

func writeSSE(w http.ResponseWriter, event, data string) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)

	return err
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func main() {
	port := flag.Int("port", 3000, "port to listen on")
	apiKey := flag.String("api-key", os.Getenv("MOCK_CLARIFY_API_KEY"), "bearer token required on /api routes (empty disables auth)")
	frameDelay := flag.Duration("frame-delay", 200*time.Millisecond, "delay between SSE frames")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	s := newServer(logger, *apiKey, *frameDelay)

	// SSE responses need an unbounded write window; the idle timeout still
	// reclaims dead connections.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Mock clarify service listening", "addr", srv.Addr, "auth", *apiKey != "", "frame_delay", frameDelay.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
