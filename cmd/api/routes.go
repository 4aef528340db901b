package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", app.health)
	mux.HandleFunc("GET /api/spotify/now-playing", app.handleNowPlaying)
	mux.HandleFunc("GET /api/github/repos", app.handleRepos)
	mux.HandleFunc("GET /api/status", app.handleStatus)

	standard := alice.New(app.recoverPanic, app.logRequest, commonHeaders)

	return standard.Then(mux)
}
