package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/astrocorps/stargate/internal/services/roster/storage"
)

const defaultAuditListLimit = 50

// AppendAuditEvent persists one audit record.
func (s *Store) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.Action) == "" {
		return fmt.Errorf("audit action is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO audit_events (action, entity_type, entity_id, details, actor, level, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		evt.Action, evt.EntityType, evt.EntityID, evt.Details, evt.Actor, evt.Level,
		toMillis(evt.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns the most recent audit records, newest first.
func (s *Store) ListAuditEvents(ctx context.Context, limit int) ([]storage.AuditEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = defaultAuditListLimit
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT action, entity_type, entity_id, details, actor, level, timestamp
		 FROM audit_events ORDER BY timestamp DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []storage.AuditEvent
	for rows.Next() {
		var (
			evt       storage.AuditEvent
			timestamp int64
		)
		if err := rows.Scan(&evt.Action, &evt.EntityType, &evt.EntityID, &evt.Details, &evt.Actor, &evt.Level, &timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		evt.Timestamp = fromMillis(timestamp)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

var _ storage.AuditEventStore = (*Store)(nil)
