package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/growfix/backend/internal/accounting"
	"github.com/growfix/backend/internal/config"
	"github.com/growfix/backend/internal/db"
	"github.com/growfix/backend/internal/geocode"
	httpapi "github.com/growfix/backend/internal/http"
	"github.com/growfix/backend/internal/jobs"
	"github.com/growfix/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "growfix-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	geocoder := &geocode.NominatimGeocoder{
		BaseURL:     cfg.GeocoderBaseURL,
		UserAgent:   cfg.GeocoderUserAgent,
		MinInterval: cfg.GeocoderMinInterval,
	}

	assigner := &service.AssignmentService{
		Geocoder: geocoder,
		Coords:   store,
		Region:   cfg.RegionQualifier,
		Logger:   logger,
	}

	var ledger service.ContactSyncer
	var syncer *accounting.Syncer
	if cfg.LedgerRefreshToken != "" {
		syncer = &accounting.Syncer{
			API: &accounting.BooksClient{
				BaseURL:      cfg.LedgerBaseURL,
				AuthURL:      cfg.LedgerAuthURL,
				OrgID:        cfg.LedgerOrgID,
				ClientID:     cfg.LedgerClientID,
				ClientSecret: cfg.LedgerClientSecret,
				RefreshToken: cfg.LedgerRefreshToken,
			},
			Store:  store,
			Logger: logger,
		}
		ledger = syncer
	} else {
		logger.Info().Msg("ledger sync disabled")
	}

	complaints := &service.ComplaintService{
		Store:    store,
		Assigner: assigner,
		Ledger:   ledger,
		Logger:   logger,
	}
	leads := &service.LeadService{Store: store, Logger: logger}

	if syncer != nil {
		job := &jobs.ContactSyncJob{
			Syncer:   syncer,
			Schedule: cfg.ContactSyncCron,
			Logger:   logger,
		}
		if err := job.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start contact sync job")
		}
		defer job.Stop()
	}

	router := httpapi.Router(cfg, store, complaints, leads, assigner, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
