// Package server is the composition root: it builds every dependency from
// the configuration, wires handlers to routes, and runs the HTTP server.
//
// DEPENDENCY INJECTION FLOW:
//
//	config → sqlstore.DB ─────────────→ AuthService ──→ AuthHandler
//	       → github.Client ─┬→ search.Orchestrator ─┬→ TalentService → TalentHandler
//	       → session store ─┘                       └→ ChatService ──→ ChatHandler
//	       → llm.Model ─────────────────────────────────┘
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/auth"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/config"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/github"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/handler"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/llm"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/llm/gemini"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/llm/ollama"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/matching"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/middleware"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/repository/sqlstore"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/search"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/service"
)

const (
	shutdownTimeout  = 30 * time.Second
	redisPingTimeout = 3 * time.Second
)

// Server represents the HTTP server and the resources it owns.
// The database pool and the Redis client (if any) are closed by Close.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlstore.DB
	redis  *redis.Client
}

// New opens the stores, builds the services and registers all routes.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlstore.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("server: opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database pool and the Redis client.
func (s *Server) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

// sessionStore picks Redis when REDIS_ADDR is set, the in-process store
// otherwise.
func (s *Server) sessionStore(ctx context.Context) (search.SessionStore, error) {
	if s.cfg.Redis.Addr == "" {
		s.logger.Info("search sessions kept in memory")
		return search.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     s.cfg.Redis.Addr,
		Password: s.cfg.Redis.Password,
		DB:       s.cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("server: connecting to redis at %s: %w", s.cfg.Redis.Addr, err)
	}

	s.redis = client
	s.logger.Info("search sessions kept in redis",
		slog.String("addr", s.cfg.Redis.Addr),
		slog.Duration("ttl", s.cfg.CacheTTL),
	)
	return search.NewRedisStore(client, s.cfg.CacheTTL), nil
}

// newModel builds the configured language model. It returns a nil
// interface (not a typed nil) when the provider is "none".
func newModel(ctx context.Context, cfg config.LLMConfig) (llm.Model, string, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		m, err := ollama.New(cfg.OllamaHost, cfg.OllamaModel)
		if err != nil {
			return nil, "", err
		}
		return m, m.Name(), nil
	case config.ProviderGemini:
		m, err := gemini.New(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return nil, "", err
		}
		return m, m.Name(), nil
	default:
		return nil, "", nil
	}
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET  /                       → welcome message
// GET  /healthz                → database ping
// POST /api/login              → password login
// POST /api/login/google       → Google ID token login
// GET  /api/me                 → current user            (auth)
// PUT  /api/user/profile       → update profile links    (auth)
// GET  /api/search             → candidate search
// POST /api/find-nearby        → location-scoped search
// POST /api/match              → skill overlap
// POST /api/match/candidate    → candidate score
// POST /api/interview/analyze  → interview answer analysis
// POST /api/chat               → assistant
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so the logger can print it; Recoverer sits inside
// the logger so a recovered panic is still logged as a 500.
func (s *Server) setupRoutes(ctx context.Context) error {
	// === Dependencies ===
	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("server: creating token service: %w", err)
	}
	if s.cfg.Auth.GoogleClientID == "" {
		s.logger.Warn("GOOGLE_CLIENT_ID not set; Google sign-in will be rejected")
	}

	store, err := s.sessionStore(ctx)
	if err != nil {
		return err
	}

	fallback, err := search.LoadFallback()
	if err != nil {
		return fmt.Errorf("server: loading fallback candidates: %w", err)
	}

	model, modelName, err := newModel(ctx, s.cfg.LLM)
	if err != nil {
		return fmt.Errorf("server: creating %s model: %w", s.cfg.LLM.Provider, err)
	}
	var generator service.ProfileGenerator
	if model != nil {
		generator = llm.NewCandidateGenerator(model, s.logger)
		s.logger.Info("language model configured",
			slog.String("provider", s.cfg.LLM.Provider),
			slog.String("model", modelName),
		)
	} else {
		s.logger.Warn("no language model configured; chat will answer with a fallback message")
	}

	gh := github.New(s.cfg.GitHub.APIURL, s.cfg.GitHub.Token, s.logger)
	orchestrator := search.NewOrchestrator(gh, store, s.logger)

	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), auth.NewGoogleVerifier(s.cfg.Auth.GoogleClientID), s.logger)
	talentService := service.NewTalentService(orchestrator, gh, s.db, fallback, generator, matching.NewScorer(nil), s.logger)
	chatService := service.NewChatService(model, orchestrator, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	talentHandler := handler.NewTalentHandler(talentService, s.logger)
	chatHandler := handler.NewChatHandler(chatService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Get("/", healthHandler.HandleRoot)
	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/login/google", authHandler.HandleGoogleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Put("/user/profile", authHandler.HandleUpdateProfile)
		})

		r.Get("/search", talentHandler.HandleSearch)
		r.With(auth.OptionalAuth(tokens)).Post("/find-nearby", talentHandler.HandleFindNearby)
		r.Post("/match", talentHandler.HandleMatch)
		r.Post("/match/candidate", talentHandler.HandleScoreCandidate)
		r.Post("/interview/analyze", talentHandler.HandleAnalyzeResponse)
		r.Post("/chat", chatHandler.HandleChat)
	})

	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully:
// stop accepting connections, let in-flight requests finish (30s), close
// the stores.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute, // chat and profile generation wait on the model
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)),
			slog.String("database", s.db.Driver()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listening: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
