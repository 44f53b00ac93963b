package api

import (
	"net/http"
	"strings"
	"time"

	"autobooks/src/api/handlers"
	"autobooks/src/auth"
	"autobooks/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router   *chi.Mux
	Handler  *handlers.Handler
	Verifier auth.Verifier
	Logger   *logrus.Logger
	BasePath string
}

func NewServer(handler *handlers.Handler, verifier auth.Verifier, logger *logrus.Logger, basePath string) *Server {
	server := &Server{
		Router:   chi.NewRouter(),
		Handler:  handler,
		Verifier: verifier,
		Logger:   logger,
		BasePath: normalizeBasePath(basePath),
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.RealIP)
	s.Router.Use(RequestLogger(s.Logger))
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"Authorization", "Content-Type", "apikey", "x-client-info"},
		OptionsSuccessStatus: http.StatusOK,
	}).Handler)
	s.Router.Use(Preflight)

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.Verifier))
		r.NotFound(handlers.NotFound)
		r.MethodNotAllowed(handlers.NotFound)

		s.assetRoutes(r)
		if s.BasePath != "" {
			r.Route(s.BasePath, func(r chi.Router) {
				r.NotFound(handlers.NotFound)
				r.MethodNotAllowed(handlers.NotFound)
				s.assetRoutes(r)
			})
		}
	})
}

func (s *Server) assetRoutes(r chi.Router) {
	r.Get("/categories", s.Handler.GetCategories)
	r.Get("/assets", s.Handler.GetAssets)
	r.Get("/asset", s.Handler.GetAsset)
	r.Post("/create", s.Handler.CreateAsset)
	r.Post("/update", s.Handler.UpdateAsset)
	r.Post("/delete", s.Handler.DeleteAsset)
	r.Post("/transaction", s.Handler.AddTransaction)
	r.Post("/graphql", s.Handler.GraphQL)
	r.Get("/export", s.Handler.ExportAssets)
}

// Preflight answers every OPTIONS request with an empty 200, including the
// ones the CORS handler does not treat as a preflight.
func Preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger stores a request-scoped logrus entry in the context and logs
// every completed request.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			entry := logger.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(utils.WithLogger(r.Context(), entry)))
			entry.WithFields(logrus.Fields{
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Info("request completed")
		})
	}
}

func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}
