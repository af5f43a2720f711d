// Package server exposes evaluation sessions over HTTP. Each session owns one
// evaluator, so bindings persist between requests to the same session.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kite/internal/evaluator"
	"kite/internal/journal"
	"kite/internal/object"
	"kite/internal/util"
)

type session struct {
	mu      sync.Mutex
	eval    *evaluator.Evaluator
	journal *journal.Session
}

// Server is the HTTP API for evaluation sessions.
type Server struct {
	app    *fiber.App
	config util.Configuration
	store  *journal.Store // nil disables journaling

	mu       sync.RWMutex
	sessions map[string]*session
}

type evalRequest struct {
	Source *string `json:"source"`
}

type evalResponse struct {
	Type    string `json:"type"`
	Value   string `json:"value"`
	Pending int    `json:"pending"`
}

type variableResponse struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// New creates the API server. store may be nil.
func New(config util.Configuration, store *journal.Store) *Server {
	srv := &Server{
		config:   config,
		store:    store,
		sessions: make(map[string]*session),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Post("/v1/sessions", srv.createSession)
	app.Post("/v1/sessions/:id/eval", srv.evalSession)
	app.Post("/v1/sessions/:id/reset", srv.resetSession)
	app.Get("/v1/sessions/:id/vars", srv.listVariables)
	app.Delete("/v1/sessions/:id", srv.deleteSession)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	slog.Info("http api listening", slog.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

func errorResponse(c *fiber.Ctx, status int, kind, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"kind":    kind,
			"message": message,
		},
	})
}

func notFound(c *fiber.Ctx) error {
	return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "session "+c.Params("id")+" not found")
}

func (s *Server) lookup(c *fiber.Ctx) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[c.Params("id")]
	return sess, ok
}

func (s *Server) createSession(c *fiber.Ctx) error {
	sess := &session{eval: evaluator.New(s.config)}
	id := uuid.NewString()

	if s.store != nil {
		js, err := s.store.Begin(c.UserContext())
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, object.UNHANDLED, err.Error())
		}
		sess.journal = js
		id = js.ID
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	slog.Info("session created", slog.String("session", id))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) evalSession(c *fiber.Ctx) error {
	sess, ok := s.lookup(c)
	if !ok {
		return notFound(c)
	}

	var req evalRequest
	if err := c.BodyParser(&req); err != nil || req.Source == nil {
		return errorResponse(c, fiber.StatusBadRequest, "BAD_REQUEST", "body must be a JSON object with a source string")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	value, evalErr := sess.eval.Parse(*req.Source)
	s.record(c.UserContext(), sess, *req.Source, value, evalErr)

	if evalErr != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fiber.Map{
				"kind":    object.KindOf(evalErr),
				"message": evalErr.Error(),
			},
			"pending": sess.eval.Pending(),
		})
	}
	return c.JSON(evalResponse{
		Type:    string(value.Type()),
		Value:   value.Inspect(),
		Pending: sess.eval.Pending(),
	})
}

func (s *Server) record(ctx context.Context, sess *session, source string, value object.Object, evalErr error) {
	if sess.journal == nil {
		return
	}
	if err := sess.journal.Record(ctx, source, value, evalErr); err != nil {
		slog.Warn("failed to journal input",
			slog.String("session", sess.journal.ID),
			slog.Any("error", err))
	}
}

func (s *Server) resetSession(c *fiber.Ctx) error {
	sess, ok := s.lookup(c)
	if !ok {
		return notFound(c)
	}
	sess.mu.Lock()
	sess.eval.Reset()
	sess.mu.Unlock()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listVariables(c *fiber.Ctx) error {
	sess, ok := s.lookup(c)
	if !ok {
		return notFound(c)
	}

	sess.mu.Lock()
	vars := sess.eval.Env().Visible()
	sess.mu.Unlock()

	out := make([]variableResponse, 0, len(vars))
	for _, v := range vars {
		out = append(out, variableResponse{
			Name:  v.Name,
			Depth: v.Depth,
			Type:  string(v.Value.Type()),
			Value: v.Value.Inspect(),
		})
	}
	return c.JSON(out)
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return notFound(c)
	}
	slog.Info("session deleted", slog.String("session", id))
	return c.SendStatus(fiber.StatusNoContent)
}
