package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"fac2x2/adapters/postgres"
	"fac2x2/app"
	"fac2x2/internal/config"
	"fac2x2/internal/testkit"
	"fac2x2/ports"
	"fac2x2/ui"
)

func main() {
	// .env is optional; environment variables win
	_ = godotenv.Load()
	cfg := config.Load()

	var scenarios ports.ScenarioRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("[api] database connection failed: %v", err)
		}
		repo := postgres.NewScenarioRepository(db).(*postgres.ScenarioRepositoryImpl)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("[api] schema setup failed: %v", err)
		}
		scenarios = repo
		log.Printf("[api] scenario persistence enabled")
	} else {
		log.Printf("[api] DATABASE_URL not set, scenario persistence disabled")
	}

	designService := app.NewDesignService(scenarios)
	// The real stratified Cox fit is an external collaborator; the stub
	// carries the reference trial's documented estimates.
	analysisService := app.NewAnalysisService(testkit.NewStubRegression())
	sweepService := app.NewSweepService(designService, cfg.Compute.Workers)

	server := ui.NewServer(ui.Config{
		Design:      designService,
		Analysis:    analysisService,
		Sweep:       sweepService,
		Scenarios:   scenarios,
		DefaultSeed: cfg.Compute.Seed,
	})
	if err := server.ListenAndServe(cfg.Server.Port); err != nil {
		log.Fatalf("[api] server stopped: %v", err)
	}
}
