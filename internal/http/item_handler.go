package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/warehouse/internal/service"
)

type itemHandler struct {
	svc service.InventoryService
	s   *Service
}

func newItemHandler(s *Service, svc service.InventoryService) *itemHandler {
	return &itemHandler{
		svc: svc,
		s:   s,
	}
}

func (h *itemHandler) ListItems(w http.ResponseWriter, r *http.Request) error {
	req, err := pageRequest(r)
	if err != nil {
		return err
	}

	page, err := h.svc.ListItems(r.Context(), req)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toItemResponse))
	return nil
}

func (h *itemHandler) CreateItem(w http.ResponseWriter, r *http.Request) error {
	actorID, err := requestActorID(r)
	if err != nil {
		return err
	}

	var body ItemRequest
	if err := h.s.decodeBody(w, r, &body); err != nil {
		return err
	}
	params, err := body.toCreateParams()
	if err != nil {
		return err
	}

	id, err := h.svc.CreateItem(r.Context(), params, actorID)
	if err != nil {
		return err
	}

	w.Header().Set("Location", fmt.Sprintf("%s/items/%d", apiPrefix, id))
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
	return nil
}

func (h *itemHandler) GetItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	item, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
	return nil
}

func (h *itemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) error {
	actorID, err := requestActorID(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	var body ItemRequest
	if err := h.s.decodeBody(w, r, &body); err != nil {
		return err
	}
	params, err := body.toUpdateParams()
	if err != nil {
		return err
	}

	if err := h.svc.UpdateItem(r.Context(), id, params, actorID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *itemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) error {
	actorID, err := requestActorID(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteItem(r.Context(), id, actorID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *itemHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) error {
	actorID, err := requestActorID(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	var body AdjustQuantityRequest
	if err := h.s.decodeBody(w, r, &body); err != nil {
		return err
	}

	quantity, err := h.svc.AdjustQuantity(r.Context(), id, body.Operation, *body.Amount, actorID)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, QuantityResponse{ID: id, Quantity: quantity})
	return nil
}

func (h *itemHandler) ListItemAlerts(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	alerts, err := h.svc.ListItemAlerts(r.Context(), id)
	if err != nil {
		return err
	}

	res := make([]StockAlertResponse, len(alerts))
	for i, a := range alerts {
		res[i] = toStockAlertResponse(a)
	}

	writeJSON(w, http.StatusOK, res)
	return nil
}
