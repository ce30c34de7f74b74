package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/scryptex/backend/internal/airdrop"
	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/audit"
	"github.com/scryptex/backend/internal/auth"
	"github.com/scryptex/backend/internal/chat"
	"github.com/scryptex/backend/internal/config"
	"github.com/scryptex/backend/internal/database"
	"github.com/scryptex/backend/internal/farming"
	"github.com/scryptex/backend/internal/feedback"
	"github.com/scryptex/backend/internal/ledger"
	"github.com/scryptex/backend/internal/middleware"
	"github.com/scryptex/backend/internal/research"
	"github.com/scryptex/backend/internal/router"
	"github.com/scryptex/backend/internal/twitter"
	"github.com/scryptex/backend/internal/waitlist"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	ctx := context.Background()

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		slog.Error("Schema migration failed. Ensure Postgres is running, e.g. make dev-up or docker-compose up -d", "error", err)
		os.Exit(1)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	slog.Info("Connected to PostgreSQL database successfully!")

	// River migrations
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed", "error", err)
		os.Exit(1)
	}
	slog.Info("River migrations applied")

	// Audit trail
	auditRec := audit.NewRecorder(audit.NewRepository(pool), logger)

	// Credit ledger
	ledgerRepo := ledger.NewRepository(pool)
	ledgerSvc := ledger.NewService(ledgerRepo)
	creditHandler := ledger.NewHandler(ledgerSvc, auditRec, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authSvc := auth.NewService(authRepo, cfg.JWTSecret, cfg.TokenExpireMinutes)
	authHandler := auth.NewHandler(authSvc, logger)

	// Job enqueue funcs are set after the River client is created
	// (breaks the init cycle between services and workers).
	var insertMu sync.Mutex
	var insertFarming farming.EnqueueRunFunc
	var insertAnalysis research.EnqueueAnalysisFunc
	enqueueFarming := func(ctx context.Context, args farming.RunFarmingArgs) error {
		insertMu.Lock()
		fn := insertFarming
		insertMu.Unlock()
		if fn == nil {
			panic("river insert not wired")
		}
		return fn(ctx, args)
	}
	enqueueAnalysis := func(ctx context.Context, args research.AnalyzeProjectArgs) error {
		insertMu.Lock()
		fn := insertAnalysis
		insertMu.Unlock()
		if fn == nil {
			panic("river insert not wired")
		}
		return fn(ctx, args)
	}

	// Farming
	farmingRepo := farming.NewRepository(pool)
	farmingSvc := farming.NewService(farmingRepo, ledgerSvc, enqueueFarming, cfg.RetryAlwaysSucceeds, logger)
	farmingHandler := farming.NewHandler(farmingSvc, auditRec, logger)

	// Research
	var llm research.LLM
	llm, err = research.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Warn("Gemini client init failed, fetcher results will carry inline errors", "error", err)
		llm = unavailableLLM{err: err}
	}
	researchRepo := research.NewRepository(pool)
	researchSvc := research.NewService(researchRepo, ledgerSvc, llm, enqueueAnalysis, logger)
	researchHandler := research.NewHandler(researchSvc, logger)

	// Twitter content
	twitterRepo := twitter.NewRepository(pool)
	twitterSvc := twitter.NewService(twitterRepo, ledgerSvc, researchRepo, twitter.NewTemplateGenerator())
	twitterHandler := twitter.NewHandler(twitterSvc, auditRec, logger)

	// Waitlist, chat, feedback, airdrop
	waitlistHandler := waitlist.NewHandler(waitlist.NewService(waitlist.NewRepository(pool)), logger)
	chatHandler := chat.NewHandler(chat.NewService(chat.NewRepository(pool)), logger)
	feedbackHandler := feedback.NewHandler(feedback.NewRepository(pool), logger)
	airdropHandler := airdrop.NewHandler()

	// Workers
	workers := river.NewWorkers()
	river.AddWorker(workers, farming.NewRunFarmingWorker(farmingSvc))
	river.AddWorker(workers, research.NewAnalyzeProjectWorker(researchSvc))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}

	insertMu.Lock()
	insertFarming = func(ctx context.Context, args farming.RunFarmingArgs) error {
		_, err := riverClient.Insert(ctx, args, nil)
		return err
	}
	insertAnalysis = func(ctx context.Context, args research.AnalyzeProjectArgs) error {
		_, err := riverClient.Insert(ctx, args, nil)
		return err
	}
	insertMu.Unlock()

	apiRouter := router.New(router.Handlers{
		Auth:     authHandler,
		Credit:   creditHandler,
		Farming:  farmingHandler,
		Research: researchHandler,
		Twitter:  twitterHandler,
		Waitlist: waitlistHandler,
		Chat:     chatHandler,
		Feedback: feedbackHandler,
		Airdrop:  airdropHandler,
	}, authSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]any{"service": "scryptex-backend"}, "Welcome to the Scryptex API")
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", apiRouter)

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(middleware.Metrics(mux))

	// Start River client (processes jobs)
	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	serverAddr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}

// unavailableLLM stands in when the Gemini client cannot be built; the
// research pipeline stores its error inline instead of crashing.
type unavailableLLM struct {
	err error
}

func (u unavailableLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return "", u.err
}
