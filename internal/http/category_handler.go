package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/warehouse/internal/service"
)

type categoryHandler struct {
	svc service.CategoryService
	s   *Service
}

func newCategoryHandler(s *Service, svc service.CategoryService) *categoryHandler {
	return &categoryHandler{
		svc: svc,
		s:   s,
	}
}

func (h *categoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) error {
	req, err := pageRequest(r)
	if err != nil {
		return err
	}

	page, err := h.svc.ListCategories(r.Context(), req)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toCategoryResponse))
	return nil
}

func (h *categoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) error {
	actorID, err := requestActorID(r)
	if err != nil {
		return err
	}

	var body CategoryRequest
	if err := h.s.decodeBody(w, r, &body); err != nil {
		return err
	}

	id, err := h.svc.CreateCategory(r.Context(), body.Name, actorID)
	if err != nil {
		return err
	}

	w.Header().Set("Location", fmt.Sprintf("%s/categories/%d", apiPrefix, id))
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
	return nil
}

func (h *categoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	category, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
	return nil
}

func (h *categoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) error {
	actorID, err := requestActorID(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	var body CategoryRequest
	if err := h.s.decodeBody(w, r, &body); err != nil {
		return err
	}

	if err := h.svc.UpdateCategory(r.Context(), id, body.Name, actorID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *categoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) error {
	actorID, err := requestActorID(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteCategory(r.Context(), id, actorID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
