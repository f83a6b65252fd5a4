package http

import (
	"context"
	"net/http"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
)

type AuditLister interface {
	ListEntries(ctx context.Context, req model.PageRequest) (model.Page[model.AuditEntry], error)
}

type auditHandler struct {
	lister AuditLister
}

func newAuditHandler(lister AuditLister) *auditHandler {
	return &auditHandler{lister: lister}
}

func (h *auditHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) error {
	req, err := pageRequest(r)
	if err != nil {
		return err
	}

	page, err := h.lister.ListEntries(r.Context(), req)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toAuditEntryResponse))
	return nil
}
