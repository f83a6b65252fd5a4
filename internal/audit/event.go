package audit

import (
	"fmt"
	"time"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
)

// NewEvent builds the audit event of a create, update or delete.
func NewEvent(actorID int64, action model.AuditAction, kind model.EntityKind, entityID int64, at time.Time) model.AuditEvent {
	return model.AuditEvent{
		ActorID:    actorID,
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		Details: fmt.Sprintf("User %d %s a %s with ID %d at %s",
			actorID, action.Verb(), kind, entityID, at.UTC().Format(time.RFC3339)),
	}
}

// NewQuantityEvent builds the audit event of a quantity adjustment. The
// details carry the resulting quantity, not the delta.
func NewQuantityEvent(actorID, itemID int64, op model.QuantityOperation, newQuantity int, at time.Time) model.AuditEvent {
	verb := "increased"
	if op == model.QuantityOperationDecrease {
		verb = "decreased"
	}

	return model.AuditEvent{
		ActorID:    actorID,
		Action:     model.AuditActionUpdate,
		EntityKind: model.EntityKindItem,
		EntityID:   itemID,
		Details: fmt.Sprintf("User %d %s quantity of item with ID %d to %d at %s",
			actorID, verb, itemID, newQuantity, at.UTC().Format(time.RFC3339)),
	}
}
