package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"nox/internal/config"
	"nox/internal/handlers"
	jwtauth "nox/internal/middleware"
	"nox/internal/repository"
)

func RegisterUserRoutes(r chi.Router, db *sql.DB, cfg *config.Config) {
	userRepo := repository.NewUserRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	favouriteRepo := repository.NewFavouriteRepository(db)

	userHandler := handlers.NewUserHandler(userRepo)
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo)
	favouriteHandler := handlers.NewFavouriteHandler(favouriteRepo)

	r.Route("/users", func(r chi.Router) {
		r.Get("/search", userHandler.Search)
		r.Get("/{id}", userHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.JWTAuth(cfg.JWTSecret))
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
			r.Post("/checkin", userHandler.CheckIn)
			r.Post("/checkout", userHandler.CheckOut)
			r.Post("/{id}/attendance/expire", userHandler.ClearExpiredAttendance)
		})
	})

	r.Route("/friendships", func(r chi.Router) {
		r.Use(jwtauth.JWTAuth(cfg.JWTSecret))
		r.Get("/", friendshipHandler.ListFriends)
		r.Get("/pending", friendshipHandler.ListPending)
		r.Get("/status/{userID}", friendshipHandler.Status)
		r.Post("/request", friendshipHandler.SendRequest)
		r.Post("/accept", friendshipHandler.Accept)
		r.Post("/cancel", friendshipHandler.Cancel)
		r.Post("/unfriend", friendshipHandler.Unfriend)
	})

	r.Route("/favourites", func(r chi.Router) {
		r.Use(jwtauth.JWTAuth(cfg.JWTSecret))
		r.Get("/", favouriteHandler.List)
		r.Post("/", favouriteHandler.Add)
		r.Get("/{clubID}", favouriteHandler.Check)
		r.Delete("/{clubID}", favouriteHandler.Remove)
	})
}
