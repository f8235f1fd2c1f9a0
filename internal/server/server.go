// Package server provides the HTTP REST API for hypothesis generation,
// stored runs, authentication and Google export.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/config"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/crawl"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/db"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/export"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/llm"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/pdftext"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/pipeline"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/search"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/server/middleware"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// GenerateTimeout bounds one full generation request, crawl included.
const GenerateTimeout = 90 * time.Second

// Runner executes the crawl-structurize-generate chain for one URL.
type Runner interface {
	Run(ctx context.Context, url string, focus types.OutputFocus) (*types.GenerateResponse, error)
}

// Store is the persistence surface the handlers need.
type Store interface {
	InsertRun(ctx context.Context, ownerID uuid.UUID, ins *types.RunInsert) (uuid.UUID, error)
	GetRun(ctx context.Context, id, ownerID uuid.UUID) (*types.Run, error)
	ListRuns(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]types.RunListItem, error)
	UpdateRun(ctx context.Context, id, ownerID uuid.UUID, patch *types.RunPatch) (*types.Run, error)
	UpdateGeneration(ctx context.Context, id, ownerID uuid.UUID, gen *types.GenerateResponse) (*types.Run, error)
	ListEditLogs(ctx context.Context, runID uuid.UUID) ([]types.EditLog, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
}

// Searcher finds company candidates for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Item, error)
}

// Exporter writes results to external documents on the user's behalf.
type Exporter interface {
	ExportDoc(ctx context.Context, tokens export.Tokens, req *types.DocExportRequest) (*export.DocResult, export.Tokens, error)
	ExportSheet(ctx context.Context, tokens export.Tokens, row *types.ExportRow) (*export.SheetResult, export.Tokens, error)
}

// Server is the HTTP server with its wired dependencies.
type Server struct {
	httpServer *http.Server
	store      Store
	pipeline   Runner
	exporter   Exporter
	searcher   Searcher // nil when Custom Search is not configured
	jwt        *JWTService
	password   *config.PasswordConfig
	validate   *validator.Validate
	logger     *zap.Logger
	timeout    time.Duration
	closeDB    func()
}

// New connects the database and wires the full request pipeline from cfg.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	var llmOpts []llm.ClientOption
	if cfg.GroqModel != "" {
		llmOpts = append(llmOpts, llm.WithModel(cfg.GroqModel))
	}
	groq, err := llm.NewGroqClient(cfg.GroqAPIKey, llmOpts...)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	var crawlOpts []crawl.Option
	if cfg.UseBrowserFallback {
		crawlOpts = append(crawlOpts, crawl.WithBrowserFallback(true))
	}
	crawler := crawl.New(logger, crawlOpts...)

	pipe := pipeline.New(crawler, llm.NewGenerator(groq), pdftext.Extract, logger)
	exporter := export.NewExporter(cfg.GoogleClientID, cfg.GoogleClientSecret, logger)

	s := newServer(database, pipe, exporter, NewJWTService(jwtConfig), passwordConfig, logger, GenerateTimeout)
	if cfg.GoogleCSEAPIKey != "" && cfg.GoogleCSECX != "" {
		s.searcher = search.NewClient(cfg.GoogleCSEAPIKey, cfg.GoogleCSECX)
	}
	s.closeDB = database.Close
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // must outlive the generation timeout
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// newServer wires a Server from already-built dependencies.
func newServer(store Store, pipe Runner, exporter Exporter, jwt *JWTService, password *config.PasswordConfig, logger *zap.Logger, timeout time.Duration) *Server {
	return &Server{
		store:    store,
		pipeline: pipe,
		exporter: exporter,
		jwt:      jwt,
		password: password,
		validate: validator.New(),
		logger:   logger,
		timeout:  timeout,
	}
}

// Handler builds the routing table with middleware applied.
func (s *Server) Handler() http.Handler {
	authed := middleware.Auth(s.jwt.ValidateToken)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/search", s.handleSearch)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.Handle("POST /api/runs", authed(http.HandlerFunc(s.handleCreateRun)))
	mux.Handle("GET /api/runs", authed(http.HandlerFunc(s.handleListRuns)))
	mux.Handle("GET /api/runs/{id}", authed(http.HandlerFunc(s.handleGetRun)))
	mux.Handle("PATCH /api/runs/{id}", authed(http.HandlerFunc(s.handlePatchRun)))
	mux.Handle("GET /api/runs/{id}/logs", authed(http.HandlerFunc(s.handleListEditLogs)))
	mux.Handle("POST /api/runs/{id}/regenerate", authed(http.HandlerFunc(s.handleRegenerate)))

	mux.Handle("POST /api/export/google-docs", authed(http.HandlerFunc(s.handleExportDoc)))
	mux.Handle("POST /api/export/google-sheet", authed(http.HandlerFunc(s.handleExportSheet)))

	return s.withLogging(s.withCORS(mux))
}

// Start listens for requests until an interrupt, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.closeDB != nil {
		s.closeDB()
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Google-Access-Token, X-Google-Refresh-Token")
		w.Header().Set("Access-Control-Expose-Headers", "X-Google-Access-Token")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes a plain error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
