package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"movimenti/internal/log"
	"movimenti/internal/services"
)

// Server exposes the local transaction engine as a JSON API. All reads are
// answered from the hydrated local cache; mutations commit locally and
// acknowledge before the remote write settles.
type Server struct {
	http.Server
	transactions *services.TransactionStore
	categories   *services.CategoryStore
	coordinator  *services.Coordinator
	logger       *log.Logger
}

// NewServer configures routes and timeouts, returning a ready-to-run server.
func NewServer(addr string, transactions *services.TransactionStore, categories *services.CategoryStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		transactions: transactions,
		categories:   categories,
		coordinator:  services.NewCoordinator(transactions, categories, logger),
		logger:       logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /transactions", s.withLogging(s.handleListTransactions))
	mux.HandleFunc("GET /transaction/{id}", s.withLogging(s.handleGetTransaction))
	mux.HandleFunc("POST /transaction/{id}/categorize", s.withLogging(s.handleCategorize))
	mux.HandleFunc("POST /transaction/{id}/split", s.withLogging(s.handleSplit))
	mux.HandleFunc("POST /transactions/categorize", s.withLogging(s.handleBulkCategorize))
	mux.HandleFunc("GET /categories", s.withLogging(s.handleListCategories))

	return s
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

// withLogging attaches a request ID and logs request start and completion.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.transactions.State() != services.StateReady {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("hydrating"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
