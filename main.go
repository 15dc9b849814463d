package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/handlers/api"
	"github.com/nijaru/yt-summary/llm"
	"github.com/nijaru/yt-summary/logger"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/workerpool"
	"github.com/nijaru/yt-summary/youtube"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logr, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Dir:    cfg.Log.Dir,
		Debug:  cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if cfg.OpenAI.APIKey == "" {
		logr.Warn("OPENAI_API_KEY is not set; summarization requests will fail authentication")
	}

	transcripts := youtube.NewClient(
		&http.Client{Timeout: cfg.Transcript.Timeout},
		youtube.WithBaseURL(cfg.Transcript.BaseURL),
		youtube.WithLogger(logr),
	)

	completer := llm.New(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	}, logr)

	summaryService := summary.NewService(transcripts, completer, logr)
	pool := workerpool.New(cfg.Workers, logr)

	server := api.NewServer(cfg,
		api.WithLogger(logr),
		api.WithServices(summaryService, pool),
	)

	// Graceful shutdown setup
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		sig := <-shutdownChan
		logr.WithField("signal", sig.String()).Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logr.WithError(err).Error("Server shutdown error")
		}

		// Jobs whose clients already left are still running.
		if err := pool.Wait(ctx); err != nil {
			logr.WithError(err).Warn("Abandoning in-flight summarization jobs")
		}
	}()

	logr.WithFields(logrus.Fields{
		"model":   completer.Model(),
		"workers": pool.Size(),
	}).Info("Summarizer ready")

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		logr.WithError(err).Fatal("Server error")
	}

	<-done
	logr.Info("Server stopped")
}
