package model

import (
	"fmt"
	"strings"
	"time"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

func (a AuditAction) Validate() error {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return nil
	default:
		return fmt.Errorf("invalid audit action: %q", string(a))
	}
}

// Verb returns the past tense used in rendered audit details.
func (a AuditAction) Verb() string {
	switch a {
	case AuditActionCreate:
		return "created"
	case AuditActionUpdate:
		return "updated"
	case AuditActionDelete:
		return "deleted"
	default:
		return strings.ToLower(string(a))
	}
}

type EntityKind string

const (
	EntityKindItem     EntityKind = "ITEM"
	EntityKindCategory EntityKind = "CATEGORY"
	EntityKindUser     EntityKind = "USER"
)

// AuditEvent describes a mutating action. It is published by services and
// persisted asynchronously as an AuditEntry.
type AuditEvent struct {
	ActorID    int64
	Action     AuditAction
	EntityKind EntityKind
	EntityID   int64
	Details    string
}

// AuditEntry is the immutable persisted form of an AuditEvent.
type AuditEntry struct {
	ID         int64
	ActorID    int64
	Action     AuditAction
	EntityKind EntityKind
	EntityID   int64
	Details    string
	CreatedAt  time.Time
}

type AuditSortBy string

const (
	AuditSortByCreatedAt AuditSortBy = "created_at"
	AuditSortByAction    AuditSortBy = "action"
)

func (s AuditSortBy) Validate() error {
	switch s {
	case AuditSortByCreatedAt, AuditSortByAction:
		return nil
	default:
		return fmt.Errorf("invalid audit sort field: %q", string(s))
	}
}
