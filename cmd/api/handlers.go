package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/wtflewis/my-portfolyo/service/spotify"
	"github.com/wtflewis/my-portfolyo/service/status"
)

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	spotifyConfigured := viper.IsSet("spotify.client_id") &&
		viper.IsSet("spotify.client_secret") &&
		viper.IsSet("spotify.refresh_token")

	jsonResponse(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"service":           "my-portfolyo",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"spotifyConfigured": spotifyConfigured,
		"youtubeConfigured": viper.GetString("youtube.access_token") != "",
	})
}

func (app *application) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.nowPlaying.Snapshot(r.Context())
	if err != nil {
		// Only authentication failures reach this point; everything
		// else degrades inside the snapshot.
		if errors.Is(err, spotify.ErrAuthentication) {
			app.logger.Error("now-playing authentication failed", "err", err)
			jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "upstream authentication failed"})
			return
		}
		app.serverError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, snapshot)
}

func (app *application) handleRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := app.github.FeaturedRepos(r.Context())
	if err != nil {
		app.logger.Error("repo listing failed", "err", err)
		jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch repos"})
		return
	}

	jsonResponse(w, http.StatusOK, repos)
}

func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, status.Current(time.Now()))
}
