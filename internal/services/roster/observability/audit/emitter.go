// Package audit records the roster mutation trail.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/astrocorps/stargate/internal/services/roster/storage"
)

// Level describes the audit record severity.
const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"
)

// Emitter records mutation attempts to the audit store. Recording is
// fire-and-forget: a failed append is logged and never fails the caller.
type Emitter struct {
	store storage.AuditEventStore
	clock func() time.Time
}

// NewEmitter creates a new audit emitter.
func NewEmitter(store storage.AuditEventStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// RecordSuccess appends an INFO record for a completed mutation.
func (e *Emitter) RecordSuccess(ctx context.Context, action, entityType, entityID, details, actor string) {
	e.emit(ctx, storage.AuditEvent{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		Actor:      actor,
		Level:      LevelInfo,
	})
}

// RecordFailure appends an ERROR record for a failed mutation.
func (e *Emitter) RecordFailure(ctx context.Context, action, entityType, entityID string, cause error, actor string) {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	e.emit(ctx, storage.AuditEvent{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		Actor:      actor,
		Level:      LevelError,
	})
}

func (e *Emitter) emit(ctx context.Context, evt storage.AuditEvent) {
	if e == nil || e.store == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	if err := e.store.AppendAuditEvent(ctx, evt); err != nil {
		log.Printf("append audit event %s: %v", evt.Action, err)
	}
}
