package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-jsonindex/pkg/api"
	"github.com/adfharrison1/go-jsonindex/pkg/storage"
)

// Server holds references to storage, router, etc.
type Server struct {
	router   *mux.Router
	dbEngine *storage.StorageEngine
}

// NewServer creates a new instance of Server.
func NewServer(options ...storage.StorageOption) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		dbEngine: storage.NewStorageEngine(options...),
	}
	api.NewHandler(s.dbEngine).RegisterRoutes(s.router)

	// Use the logging middleware for all routes
	s.router.Use(requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})

	s.dbEngine.StartBackgroundWorkers()
	return s
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		log.Printf("INFO: Request %s %s took %s", r.Method, r.URL.Path, elapsed)
	})
}

// InitDB loads indexes from filename and any per-index files in the data directory.
func (s *Server) InitDB(filename string) {
	if err := s.dbEngine.LoadFromFile(filename); err != nil {
		log.Printf("ERROR: Could not load indexes from file %s: %v", filename, err)
	} else {
		log.Printf("INFO: Loaded indexes from file %s successfully", filename)
	}
}

// SaveDB saves every index to filename
func (s *Server) SaveDB(filename string) {
	if err := s.dbEngine.SaveToFile(filename); err != nil {
		log.Printf("ERROR: Could not save indexes to file %s: %v", filename, err)
	} else {
		log.Printf("INFO: Saved indexes to file %s successfully", filename)
	}
}

// StopBackgroundWorkers stops the periodic saver, flushing dirty indexes.
func (s *Server) StopBackgroundWorkers() {
	s.dbEngine.StopBackgroundWorkers()
}

// Storage exposes the storage engine.
func (s *Server) Storage() *storage.StorageEngine {
	return s.dbEngine
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}
