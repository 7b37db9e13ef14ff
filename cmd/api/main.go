package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "stay_pricer/internal/adapters/http_server"
	"stay_pricer/internal/adapters/observability"
	redisad "stay_pricer/internal/adapters/redis"
	"stay_pricer/internal/app"
	"stay_pricer/internal/shared"
	mysqlrepo "stay_pricer/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	store := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// one-time initialization: everything the predictor holds is immutable
	// after this point.
	trainer := app.NewTrainingService(repo, store, app.TrainingOptions{
		NeighborK:      cfg.NeighborK,
		OutlierCeiling: cfg.OutlierCeiling,
		RidgeAlpha:     cfg.RidgeAlpha,
		TestFraction:   cfg.TestFraction,
		SplitSeed:      cfg.SplitSeed,
	})
	arts, err := trainer.Train(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
	predictor := app.NewPredictor(arts)

	// http
	srv := server.New(cfg.PredictRPS)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{P: predictor, Sink: repo})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
