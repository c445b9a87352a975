package storage

import (
	"context"
	"time"

	apperrors "github.com/astrocorps/stargate/internal/platform/errors"
	"github.com/astrocorps/stargate/internal/services/roster/domain/duty"
	"github.com/astrocorps/stargate/internal/services/roster/domain/person"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates a write collided with an existing record,
// such as a second person claiming a taken name.
var ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")

// ErrActiveDutyExists indicates an assignment lost a race against a
// concurrent assignment for the same person and would have opened a second
// duty, violating the single-open-duty rule.
var ErrActiveDutyExists = apperrors.New(apperrors.CodeActiveDutyExists, "person already has an active duty")

// PersonAstronaut is the person row joined with its career projection, the
// shape read by the people listing and detail views. Rank and Title are
// empty for people who have never been assigned a duty.
type PersonAstronaut struct {
	PersonID    string
	Name        string
	Rank        string
	Title       string
	CareerStart *time.Time
	CareerEnd   *time.Time
}

// PersonStore owns person identity records.
type PersonStore interface {
	CreatePerson(ctx context.Context, p person.Person) error
	GetPersonByName(ctx context.Context, name string) (person.Person, error)
	// RenamePerson changes a person's name in place; the id is unchanged.
	RenamePerson(ctx context.Context, currentName, newName string, updatedAt time.Time) (person.Person, error)
	// GetPersonAstronautByName returns the person joined with its career
	// projection, the projection columns empty when no detail row exists.
	GetPersonAstronautByName(ctx context.Context, name string) (PersonAstronaut, error)
	// ListPeople returns all people joined with their career projection.
	ListPeople(ctx context.Context) ([]PersonAstronaut, error)
}

// AssignDutyParams carries one duty assignment into the transactional
// write path. The duty ID is minted by the service layer.
type AssignDutyParams struct {
	DutyID   string
	PersonID string
	Rank     string
	Title    string
	Status   duty.Status
	Start    time.Time
}

// DutyStore owns the duty history and the career projection derived from it.
type DutyStore interface {
	// AssignDuty applies one assignment as a single atomic unit: it closes
	// any open duty the day before the new start, upserts the career
	// projection, and inserts the new open duty. A lost race against a
	// concurrent assignment for the same person fails with
	// ErrActiveDutyExists rather than opening a second duty.
	AssignDuty(ctx context.Context, params AssignDutyParams) (duty.Duty, error)
	// ListDutiesByPerson returns a person's duties ordered by start date descending.
	ListDutiesByPerson(ctx context.Context, personID string) ([]duty.Duty, error)
	// GetOpenDuty returns the person's current duty, or ErrNotFound when none is open.
	GetOpenDuty(ctx context.Context, personID string) (duty.Duty, error)
	// GetDetail returns the person's career projection, or ErrNotFound when
	// the person has never been assigned a duty.
	GetDetail(ctx context.Context, personID string) (duty.Detail, error)
}

// AuditEvent is one append-only record of a mutation attempt.
type AuditEvent struct {
	Action     string
	EntityType string
	EntityID   string
	Details    string
	Actor      string
	Level      string
	Timestamp  time.Time
}

// AuditEventStore persists the audit trail.
type AuditEventStore interface {
	AppendAuditEvent(ctx context.Context, evt AuditEvent) error
	// ListAuditEvents returns the most recent events, newest first.
	ListAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error)
}
