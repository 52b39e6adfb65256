package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/minishop-api/internal/upload"
	"github.com/vasapolrittideah/minishop-api/internal/usecase"
	"github.com/vasapolrittideah/minishop-api/shared/auth"
	"github.com/vasapolrittideah/minishop-api/shared/validator"
)

// RouterDeps bundles everything NewRouter needs.
type RouterDeps struct {
	AuthUsecase     usecase.AuthUsecase
	ItemUsecase     usecase.ItemUsecase
	CategoryUsecase usecase.CategoryUsecase
	Tokens          *auth.TokenService
	Gate            *upload.Gate
	Validator       *validator.Validator
	Logger          *zerolog.Logger
}

// NewRouter builds the full route table. Reads are open; every mutating
// route sits behind RequireAuth, and routes that accept uploads stage them
// inside the handler so a rejected submission never reaches business logic.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	authHandler := NewAuthHandler(deps.AuthUsecase, deps.Validator, deps.Logger)
	itemHandler := NewItemHandler(deps.ItemUsecase, deps.Gate, deps.Logger)
	categoryHandler := NewCategoryHandler(deps.CategoryUsecase, deps.Gate, deps.Logger)

	requireAuth := RequireAuth(deps.Tokens, deps.Logger)

	r.Post("/login", authHandler.Login)
	r.With(requireAuth).Get("/auth", authHandler.Probe)

	r.Get("/items", itemHandler.List)
	r.Get("/categories", categoryHandler.List)
	r.Get("/categories/{id}", itemHandler.ListByCategory)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/items", itemHandler.Create)
		r.Delete("/items/{id}", itemHandler.Delete)

		r.Post("/categories", categoryHandler.Create)
		r.Post("/categories/{id}", itemHandler.CreateInCategory)
		r.Post("/patchcate", categoryHandler.Update)
		r.Delete("/categories/{id}", categoryHandler.Delete)
	})

	return r
}
