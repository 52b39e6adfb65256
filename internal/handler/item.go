package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/minishop-api/internal/upload"
	"github.com/vasapolrittideah/minishop-api/internal/usecase"
)

// ItemHandler serves the item endpoints.
type ItemHandler struct {
	itemUsecase usecase.ItemUsecase
	gate        *upload.Gate
	logger      *zerolog.Logger
}

// NewItemHandler creates a new ItemHandler instance.
func NewItemHandler(itemUsecase usecase.ItemUsecase, gate *upload.Gate, logger *zerolog.Logger) *ItemHandler {
	return &ItemHandler{itemUsecase: itemUsecase, gate: gate, logger: logger}
}

// List handles GET /items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemUsecase.ListItems(r.Context())
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusOK, newItemResponses(items))
}

// ListByCategory handles GET /categories/{id}, listing the items of one
// category.
func (h *ItemHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemUsecase.ListItemsByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusOK, newItemResponses(items))
}

// Create handles POST /items. Uploads are staged before the usecase runs;
// staging failures reject the request with nothing stored.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	submission, err := h.gate.Stage(r)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	item, err := h.itemUsecase.CreateItem(r.Context(), usecase.CreateItemParams{
		Name:       submission.Values["name"],
		CategoryID: submission.Values["categoryId"],
		Files:      submission.Files,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newItemResponse(item))
}

// CreateInCategory handles POST /categories/{id}, creating an item inside
// the category named by the path.
func (h *ItemHandler) CreateInCategory(w http.ResponseWriter, r *http.Request) {
	submission, err := h.gate.Stage(r)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	item, err := h.itemUsecase.CreateItem(r.Context(), usecase.CreateItemParams{
		Name:       submission.Values["name"],
		CategoryID: chi.URLParam(r, "id"),
		Files:      submission.Files,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newItemResponse(item))
}

// Delete handles DELETE /items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.itemUsecase.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "item deleted successfully"})
}
