package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/sebuszqo/BudgetTracker/internal/response"
)

type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, userID, name string) (*domain.Category, error)
	GetCategories(ctx context.Context, userID string, query domain.CategoryQuery) (*domain.CategoryList, error)
	GetCategory(ctx context.Context, userID, id string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, id, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
}

type CategoryHandler struct {
	responders
	service CategoryServiceInterface
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON response.JSONFunc,
	respondError response.ErrorFunc,
) *CategoryHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &CategoryHandler{
		responders: newResponders(respondJSON, respondError),
		service:    service,
	}
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), userID, req.Name)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		h.serviceError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		h.serviceError(w, err)
		return
	}

	list, err := h.service.GetCategories(r.Context(), userID, domain.CategoryQuery{
		Search: queryString(r, "search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, list)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	category, err := h.service.GetCategory(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Name == nil {
		h.respondError(w, http.StatusBadRequest, "Category name is required for update", "Category name")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), userID, r.PathValue("id"), *req.Name)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), userID, r.PathValue("id")); err != nil {
		h.serviceError(w, err)
		return
	}
	response.NoContent(w)
}
