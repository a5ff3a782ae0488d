package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/sebuszqo/BudgetTracker/internal/response"
)

type RecordServiceInterface interface {
	CreateRecord(ctx context.Context, userID string, input domain.NewRecord) (*domain.Record, error)
	GetRecords(ctx context.Context, userID string, query domain.RecordQuery) (*domain.RecordList, error)
	GetRecord(ctx context.Context, userID, id string) (*domain.Record, error)
	UpdateRecord(ctx context.Context, userID, id string, patch domain.RecordPatch) (*domain.Record, error)
	DeleteRecord(ctx context.Context, userID, id string) error
}

type RecordHandler struct {
	responders
	service RecordServiceInterface
}

func NewRecordHandler(
	service RecordServiceInterface,
	respondJSON response.JSONFunc,
	respondError response.ErrorFunc,
) *RecordHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &RecordHandler{
		responders: newResponders(respondJSON, respondError),
		service:    service,
	}
}

func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var input domain.NewRecord
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	record, err := h.service.CreateRecord(r.Context(), userID, input)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var query domain.RecordQuery
	var err error
	if query.StartTime, err = queryInt64(r, "start_time"); err != nil {
		h.serviceError(w, err)
		return
	}
	if query.EndTime, err = queryInt64(r, "end_time"); err != nil {
		h.serviceError(w, err)
		return
	}
	if query.Limit, err = queryInt(r, "limit"); err != nil {
		h.serviceError(w, err)
		return
	}

	list, err := h.service.GetRecords(r.Context(), userID, query)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, list)
}

func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	record, err := h.service.GetRecord(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, record)
}

func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var patch domain.RecordPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	record, err := h.service.UpdateRecord(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, record)
}

func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRecord(r.Context(), userID, r.PathValue("id")); err != nil {
		h.serviceError(w, err)
		return
	}
	response.NoContent(w)
}
