package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/minishop-api/internal/upload"
	"github.com/vasapolrittideah/minishop-api/internal/usecase"
)

// CategoryHandler serves the category endpoints.
type CategoryHandler struct {
	categoryUsecase usecase.CategoryUsecase
	gate            *upload.Gate
	logger          *zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler instance.
func NewCategoryHandler(
	categoryUsecase usecase.CategoryUsecase,
	gate *upload.Gate,
	logger *zerolog.Logger,
) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, gate: gate, logger: logger}
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryUsecase.ListCategories(r.Context())
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusOK, newCategoryResponses(categories))
}

// Create handles POST /categories. A duplicate name discards the staged
// files before the conflict response goes out.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	submission, err := h.gate.Stage(r)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	category, err := h.categoryUsecase.CreateCategory(r.Context(), usecase.CreateCategoryParams{
		Name:  submission.Values["name"],
		Files: submission.Files,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newCategoryResponse(category))
}

// Update handles POST /patchcate, renaming a category and optionally
// replacing its images with the staged uploads.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	submission, err := h.gate.Stage(r)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	category, err := h.categoryUsecase.UpdateCategory(r.Context(), usecase.UpdateCategoryParams{
		ID:    submission.Values["categoryid"],
		Name:  submission.Values["name"],
		Files: submission.Files,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":  "category updated successfully",
		"category": newCategoryResponse(category),
	})
}

// Delete handles DELETE /categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryUsecase.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted successfully"})
}
