package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"nox/internal/config"
	"nox/internal/handlers"
	jwtauth "nox/internal/middleware"
	"nox/internal/repository"
)

func RegisterClubRoutes(r chi.Router, db *sql.DB, cfg *config.Config) {
	clubRepo := repository.NewClubRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	clubHandler := handlers.NewClubHandler(clubRepo)
	reviewHandler := handlers.NewReviewHandler(reviewRepo)

	r.Route("/clubs", func(r chi.Router) {
		r.Get("/", clubHandler.List)
		r.Get("/search", clubHandler.Search)
		r.Get("/trending", clubHandler.Trending)
		r.Get("/{id}", clubHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.JWTAuth(cfg.JWTSecret))
			r.Post("/", clubHandler.Create)
		})
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/club/{clubID}", reviewHandler.ListByClub)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.JWTAuth(cfg.JWTSecret))
			r.Post("/", reviewHandler.Create)
		})
	})
}
