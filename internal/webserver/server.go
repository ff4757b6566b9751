// Package webserver hosts the relay HTTP API
package webserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/protonix-ai/protonix/internal/relay"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests
const shutdownTimeout = 10 * time.Second

// WebServer represents the relay HTTP server
type WebServer struct {
	APIPort string
	server  *http.Server
	router  *chi.Mux
	logger  logger.Logger
	errCh   chan error
}

// NewWebServer creates a new WebServer with the relay routes mounted
func NewWebServer(apiPort string, allowedOrigins []string, handler *relay.Handler, log logger.Logger) *WebServer {
	if log == nil {
		log = logger.Discard
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	ws := &WebServer{
		APIPort: apiPort,
		router:  r,
		logger:  log,
		errCh:   make(chan error, 1),
	}
	ws.setupRoutes(handler)

	return ws
}

// Router returns the chi router to allow adding routes from outside
func (ws *WebServer) Router() *chi.Mux {
	return ws.router
}

func (ws *WebServer) setupRoutes(h *relay.Handler) {
	ws.router.Get("/", h.HandleHealth())
	ws.router.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.HandleChat())
		r.Get("/targets", h.HandleTargets())
	})
}

// Start binds the port and serves in the background.
// Bind errors are returned; later serve errors are reported on Errors().
func (ws *WebServer) Start() error {
	ln, err := net.Listen("tcp", ":"+ws.APIPort)
	if err != nil {
		return err
	}

	ws.server = &http.Server{
		Handler:           ws.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ws.logger.Info("relay server listening", map[string]interface{}{"address": ln.Addr().String()})

	go func() {
		if err := ws.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ws.logger.Error("relay server stopped unexpectedly", map[string]interface{}{logger.ErrorKey: err})
			ws.errCh <- err
		}
	}()

	return nil
}

// Errors reports a fatal serve error after Start
func (ws *WebServer) Errors() <-chan error {
	return ws.errCh
}

// Stop gracefully shuts down the server with a timeout
func (ws *WebServer) Stop() error {
	if ws.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return ws.server.Shutdown(ctx)
}

func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("http request", map[string]interface{}{
				"method":            r.Method,
				"path":              r.URL.Path,
				"status":            ww.Status(),
				"bytes":             ww.BytesWritten(),
				"remote":            r.RemoteAddr,
				logger.RequestIDKey: middleware.GetReqID(r.Context()),
				logger.DurationKey:  logger.Since(start),
			})
		})
	}
}
