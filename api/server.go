package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/feldspar-labs/inkwell-backend/config"
	"github.com/feldspar-labs/inkwell-backend/database"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(store database.PostStore) (Server, error) {
	c := config.New()

	adminSecret, err := config.Require(c, config.KeyAdminSecret)
	if err != nil {
		return Server{}, err
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(store, NewSecretAuthorizer(adminSecret))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 30)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

func newRouter(store database.PostStore, authorize Authorizer) *chi.Mux {
	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(RecoverPanics)

	// Cross-origin access is open to any origin; the admin secret header
	// must be allowed so browser clients can send it on mutations.
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", AdminSecretHeader},
	}))

	handlers := initializeHandlers(store)
	authMiddleware := newAuthMiddleware(authorize)

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
