package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/combcal/combcal/internal/config"
	"github.com/combcal/combcal/internal/ics"
	"github.com/combcal/combcal/internal/utils"
	"github.com/combcal/combcal/internal/web"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	configPath := flag.String("config", "./config/combcal.yaml", "Path to config file")
	listen := flag.String("listen", "", "HTTP listen address (overrides config if set)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	log.WithFields(log.Fields{
		"listen":       cfg.Listen,
		"calendar":     cfg.Calendar.Name,
		"sources":      len(cfg.Calendar.Sources),
		"days_history": cfg.Calendar.DaysHistory,
	}).Info("starting combcal")

	server := web.NewServer(cfg, ics.NewFetcher(nil), utils.SystemClock{})
	srv := &http.Server{
		Handler:      server.Handler(),
		Addr:         cfg.Listen,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.WithField("signal", sig.String()).Info("signal received, shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Info("combcal exiting")
}
