package qapi

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	Title   = "vitalsync"
	Version = "1.0.0"

	// APIKeyScheme is the security scheme name that sync operations declare.
	APIKeyScheme = "apiKey"
	APIKeyHeader = "X-API-Key"
)

type Api struct {
	Api    huma.API
	Router *chi.Mux
}

func NewApi() *Api {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	config := huma.DefaultConfig(Title, Version)
	config.Info.Description = "Syncs WHOOP cycles, recovery, sleep and workouts into a per-day table."

	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		APIKeyScheme: {
			Type:        "apiKey",
			In:          "header",
			Name:        APIKeyHeader,
			Description: "Shared key for the sync endpoints",
		},
	}

	api := humachi.New(router, config)

	return &Api{Api: api, Router: router}
}
