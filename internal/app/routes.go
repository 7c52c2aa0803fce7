package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/vancomm/mine-stalker/internal/handlers"
	"github.com/vancomm/mine-stalker/internal/repository"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	store := repository.New(a.db)

	runs := handlers.NewRunHandler(
		a.logger, store, a.config.Search, a.config.WebSocket, createRand(),
	)
	levels := handlers.NewLevelHandler(a.logger, store, runs)
	health := handlers.NewHealth(a.logger, a.db)

	routes := http.NewServeMux()
	routes.HandleFunc("GET /healthz", health.Check)

	routes.HandleFunc("POST /runs", runs.NewRun)
	routes.HandleFunc("GET /runs", runs.List)
	routes.HandleFunc("GET /runs/{id}", runs.Fetch)
	routes.HandleFunc("GET /runs/{id}/connect", runs.Connect)

	routes.HandleFunc("PUT /levels", levels.Put)
	routes.HandleFunc("GET /levels/{name}", levels.Fetch)
	routes.HandleFunc("POST /levels/{name}/runs", levels.NewRun)

	if base := a.config.BasePath; base != "" {
		a.router.Handle(base+"/", http.StripPrefix(base, routes))
		return
	}
	a.router.Handle("/", routes)
}
