package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"nox/internal/config"
	"nox/internal/generator"
	"nox/internal/handlers"
	jwtauth "nox/internal/middleware"
	"nox/internal/repository"
)

func RegisterEventRoutes(r chi.Router, db *sql.DB, cfg *config.Config, s3cfg *config.S3Config) {
	repo := repository.NewEventRepository(db)
	gen := generator.New(repo, cfg.Location())
	handler := handlers.NewEventHandler(repo, gen, s3cfg, cfg)

	r.Route("/events", func(r chi.Router) {
		r.Get("/club/{clubID}", handler.ListUpcomingByClub)
		r.Get("/{id}", handler.Get)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.JWTAuth(cfg.JWTSecret))
			r.Post("/", handler.Create)
			r.Post("/recurring", handler.CreateRecurring)
			r.Post("/generate", handler.Generate)
			r.Post("/{id}/poster", handler.UploadPoster)
			r.Delete("/{id}", handler.Delete)
		})
	})
}
