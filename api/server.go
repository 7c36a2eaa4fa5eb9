// Package api exposes the simulation engine over HTTP. The transport is a
// thin shell: it decodes requests, invokes the engine and maps the typed
// core errors to status codes. All ordering guarantees live in the engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/kmartel07/gridride/core/errs"
	"github.com/kmartel07/gridride/core/logger"
)

// Server routes HTTP requests to the engine.
type Server struct {
	engine Engine
	log    logger.Logger
}

// NewServer creates a Server for the given engine.
func NewServer(engine Engine, log logger.Logger) *Server {
	return &Server{engine: engine, log: log}
}

// Router builds the HTTP handler with CORS and request logging enabled.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/drivers", s.createDriver).Methods(http.MethodPost)
	router.HandleFunc("/drivers", s.listDrivers).Methods(http.MethodGet)
	router.HandleFunc("/drivers/{id}", s.deleteDriver).Methods(http.MethodDelete)
	router.HandleFunc("/drivers/{id}/pending-rides", s.pendingRides).Methods(http.MethodGet)

	router.HandleFunc("/riders", s.createRider).Methods(http.MethodPost)
	router.HandleFunc("/riders", s.listRiders).Methods(http.MethodGet)
	router.HandleFunc("/riders/{id}", s.deleteRider).Methods(http.MethodDelete)

	router.HandleFunc("/rides", s.requestRide).Methods(http.MethodPost)
	router.HandleFunc("/rides", s.listRides).Methods(http.MethodGet)
	router.HandleFunc("/rides/{id}/respond", s.respond).Methods(http.MethodPost)
	router.HandleFunc("/rides/{id}/dispatch", s.dispatch).Methods(http.MethodPost)

	router.HandleFunc("/tick", s.tick).Methods(http.MethodPost)
	router.HandleFunc("/state", s.state).Methods(http.MethodGet)
	router.HandleFunc("/reset", s.reset).Methods(http.MethodPost)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return cors(s.requestLogger(router))
}

// requestLogger logs one line per request through the component logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debugf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("encode response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the core error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		notFound errs.NotFoundError
		conflict errs.ConflictError
		invalid  errs.InvalidStateError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &conflict):
		status = http.StatusConflict
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decode(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.InvalidStatef("invalid request payload: %v", err)
	}
	return nil
}
