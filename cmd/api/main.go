package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/wtflewis/my-portfolyo/config"
	"github.com/wtflewis/my-portfolyo/service/github"
	"github.com/wtflewis/my-portfolyo/service/nowplaying"
	"github.com/wtflewis/my-portfolyo/service/spotify"
	"github.com/wtflewis/my-portfolyo/service/youtube"
)

type application struct {
	logger     *log.Logger
	nowPlaying *nowplaying.Service
	github     *github.Client
}

func main() {
	config.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "api",
	})

	timeout := time.Duration(viper.GetInt("upstream.timeout_seconds")) * time.Second

	creds := spotify.Credentials{
		ClientID:     viper.GetString("spotify.client_id"),
		ClientSecret: viper.GetString("spotify.client_secret"),
		RefreshToken: viper.GetString("spotify.refresh_token"),
	}
	tokens, err := spotify.NewTokenSource(creds, viper.GetString("spotify.token_url"), &http.Client{Timeout: timeout})
	if err != nil {
		logger.Fatal("spotify credentials incomplete", "err", err)
	}

	spotifyClient := spotify.New(viper.GetString("spotify.api_url"), tokens, timeout, logger)
	youtubeClient := youtube.New(viper.GetString("youtube.api_url"), viper.GetString("youtube.access_token"), timeout, logger)
	if youtubeClient == nil {
		logger.Info("youtube access token not set, activity feed disabled")
	}

	app := &application{
		logger:     logger,
		nowPlaying: nowplaying.New(spotifyClient, youtubeClient, logger),
		github: github.New(
			viper.GetString("github.api_url"),
			viper.GetString("github.user"),
			viper.GetString("github.token"),
			viper.GetStringSlice("github.featured_repos"),
			timeout,
			logger,
		),
	}

	addr := fmt.Sprintf("%s:%s", viper.GetString("server.host"), viper.GetString("server.port"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", fmt.Sprintf("http://%s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
	} else {
		logger.Info("server shutdown completed")
	}
}
