package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"nox/internal/config"
	"nox/internal/handlers"
)

func RegisterAuthRoutes(r chi.Router, db *sql.DB, cfg *config.Config) {
	handler := handlers.NewAuthHandler(db, cfg)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", handler.Signup)
		r.Post("/login", handler.Login)
	})
}
