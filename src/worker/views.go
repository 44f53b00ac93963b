package worker

import (
	"net/http"
	"time"

	"autobooks/src/worker/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
}

func NewServer(handler *handlers.Handler) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)

	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Route("/api/depreciation", func(r chi.Router) {
		r.Get("/schedules", s.Handler.GetSchedules)
		r.Post("/run", s.Handler.RunDepreciation)
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		Handler:      server,
	}
	return httpServer
}
