// Package server wires the application together: database, repositories,
// services, handlers, middleware and routes. It is the composition root;
// main.go only loads config and calls Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/koyiljon-s/rest-redirect-chat/internal/auth"
	"github.com/koyiljon-s/rest-redirect-chat/internal/config"
	"github.com/koyiljon-s/rest-redirect-chat/internal/handler"
	"github.com/koyiljon-s/rest-redirect-chat/internal/middleware"
	"github.com/koyiljon-s/rest-redirect-chat/internal/repository/mongodb"
	"github.com/koyiljon-s/rest-redirect-chat/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *mongodb.DB
}

// New connects to the database and assembles the full dependency chain:
// repositories over the shared connection, services over the repository
// interfaces, handlers over the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := mongodb.New(ctx, cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("server: connecting to database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	userRepo := mongodb.NewUserRepo(s.db)
	postRepo := mongodb.NewPostRepo(s.db)
	commentRepo := mongodb.NewCommentRepo(s.db)

	hasher := auth.NewPasswordHasher(s.config.PasswordPepper)

	userService := service.NewUserService(userRepo, hasher, s.logger)
	postService := service.NewPostService(postRepo, commentRepo, userRepo, s.logger)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/users", userHandler.HandleCreate)
		r.Get("/users/{id}", userHandler.HandleGetByID)
		r.Put("/users/{id}", userHandler.HandleUpdate)
		r.Delete("/users/{id}", userHandler.HandleDelete)
		r.Get("/users/{id}/posts", postHandler.HandleListByUser)
		r.Get("/users/{id}/comments", commentHandler.HandleListByUser)

		r.Get("/posts", postHandler.HandleList)
		r.Post("/posts", postHandler.HandleCreate)
		r.Get("/posts/{id}", postHandler.HandleGetByID)
		r.Put("/posts/{id}", postHandler.HandleUpdate)
		r.Delete("/posts/{id}", postHandler.HandleDelete)
		r.Get("/posts/{id}/comment", commentHandler.HandleGetByPost)

		r.Get("/comments", commentHandler.HandleList)
		r.Post("/comments", commentHandler.HandleCreate)
		r.Get("/comments/{id}", commentHandler.HandleGetByID)
		r.Put("/comments/{id}", commentHandler.HandleUpdate)
		r.Delete("/comments/{id}", commentHandler.HandleDelete)
	})
}

// Start runs the HTTP server until SIGINT or SIGTERM, then drains in-flight
// requests and closes the database connection.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DatabaseName),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			s.closeDB()
			return fmt.Errorf("server: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.closeDB()
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	s.closeDB()
	return nil
}

func (s *Server) closeDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.db.Close(ctx); err != nil {
		s.logger.Error("closing database connection", slog.String("error", err.Error()))
	}
}
