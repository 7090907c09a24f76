package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/triadeinvest/omie-sync/internal/finance"
	"github.com/triadeinvest/omie-sync/internal/ingest"
	"github.com/triadeinvest/omie-sync/internal/logger"
	"github.com/triadeinvest/omie-sync/internal/store"
)

type application struct {
	config  config
	store   *store.Storage
	ingest  *ingest.Service
	finance *finance.Engine
	logger  *logger.Logger
}

type config struct {
	addr      string
	db        dbConfig
	omie      omieConfig
	sheetPath string
	logLevel  string
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type omieConfig struct {
	baseURL   string
	appKey    string
	appSecret string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Sync runs can take minutes across all Omie pages, so the request
	// timeout is generous.
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/sync", func(r chi.Router) {
			r.Post("/", app.handleRunFullSync)
			r.Get("/checkpoints", app.handleListCheckpoints)
			r.Post("/{entity}", app.handleRunEntitySync)
		})
		r.Route("/operations", func(r chi.Router) {
			r.Get("/{id}/financial", app.handleGetOperationFinancial)
			r.Get("/{id}/costs", app.handleGetOperationCosts)
		})
		r.Route("/investors", func(r chi.Router) {
			r.Get("/{document}/operations", app.handleListInvestorOperations)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Minute * 12,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.logger.Info("Main", "Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
