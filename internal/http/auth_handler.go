package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/warehouse/internal/auth"
)

type authHandler struct {
	svc auth.Service
	s   *Service
}

func newAuthHandler(s *Service, svc auth.Service) *authHandler {
	return &authHandler{
		svc: svc,
		s:   s,
	}
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var body LoginRequest
	if err := h.s.decodeBody(w, r, &body); err != nil {
		return err
	}

	token, err := h.svc.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt,
		Username:  token.Username,
		Roles:     token.Roles,
	})
	return nil
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) error {
	actorID, err := requestActorID(r)
	if err != nil {
		return err
	}

	var body RegisterRequest
	if err := h.s.decodeBody(w, r, &body); err != nil {
		return err
	}

	id, err := h.svc.Register(r.Context(), auth.RegisterParams{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Roles:    body.Roles,
	}, actorID)
	if err != nil {
		return err
	}

	w.Header().Set("Location", fmt.Sprintf("%s/users/%d", apiPrefix, id))
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
	return nil
}
