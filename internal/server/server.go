package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Server is the HTTP trigger surface: it starts runs and serves the ledger.
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

func NewServer(port string, h *Handler) *Server {
	return &Server{
		port:    port,
		handler: h,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: NewRouter(h),
		},
	}
}

// NewRouter wires the routes; split out so tests can drive the handlers
// without a listening socket.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", h.Health).Methods("GET")
	router.HandleFunc("/run", h.Run).Methods("POST")
	router.HandleFunc("/runs", h.ListRuns).Methods("GET")
	router.HandleFunc("/runs/{runID}", h.GetRun).Methods("GET")
	router.HandleFunc("/teams/{teamID}/players", h.TeamPlayers).Methods("GET")
	return router
}

func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
