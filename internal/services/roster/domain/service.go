// Package domain implements the roster business operations: person
// directory maintenance and the duty assignment engine.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/astrocorps/stargate/internal/platform/errors"
	"github.com/astrocorps/stargate/internal/platform/id"
	"github.com/astrocorps/stargate/internal/services/roster/domain/duty"
	"github.com/astrocorps/stargate/internal/services/roster/domain/person"
	"github.com/astrocorps/stargate/internal/services/roster/observability/audit"
	"github.com/astrocorps/stargate/internal/services/roster/storage"
)

// Audit action and entity names, kept stable for operational queries.
const (
	actionCreatePerson = "CREATE_PERSON"
	actionUpdatePerson = "UPDATE_PERSON"
	actionAssignDuty   = "CREATE_ASTRONAUT_DUTY"

	entityPerson = "Person"
	entityDuty   = "AstronautDuty"

	systemActor = "system"
)

// Service exposes the roster operations consumed by the API boundary.
type Service struct {
	people storage.PersonStore
	duties storage.DutyStore
	audit  *audit.Emitter
	clock  func() time.Time
	newID  func() (string, error)
}

// NewService creates a roster service backed by the given stores.
func NewService(people storage.PersonStore, duties storage.DutyStore, auditEmitter *audit.Emitter) *Service {
	return &Service{
		people: people,
		duties: duties,
		audit:  auditEmitter,
		clock:  time.Now,
		newID:  id.NewID,
	}
}

func (s *Service) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// CreatePerson allocates a new person identity for a unique name.
func (s *Service) CreatePerson(ctx context.Context, name string) (person.Person, error) {
	if s == nil || s.people == nil {
		return person.Person{}, apperrors.New(apperrors.CodeStorage, "person store is not configured")
	}

	p, err := person.NewPerson(name, s.clock, s.newID)
	if err != nil {
		s.audit.RecordFailure(ctx, actionCreatePerson, entityPerson, name, err, systemActor)
		return person.Person{}, err
	}

	if err := s.people.CreatePerson(ctx, p); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			err = apperrors.WithMetadata(apperrors.CodePersonAlreadyExists,
				fmt.Sprintf("person %q already exists", p.Name),
				map[string]string{"name": p.Name})
		}
		s.audit.RecordFailure(ctx, actionCreatePerson, entityPerson, p.Name, err, systemActor)
		return person.Person{}, err
	}

	s.audit.RecordSuccess(ctx, actionCreatePerson, entityPerson, p.ID,
		fmt.Sprintf("Created person: %s", p.Name), systemActor)
	return p, nil
}

// RenamePerson changes a person's name; the id is unchanged.
func (s *Service) RenamePerson(ctx context.Context, currentName, newName string) (person.Person, error) {
	if s == nil || s.people == nil {
		return person.Person{}, apperrors.New(apperrors.CodeStorage, "person store is not configured")
	}

	current, err := person.NormalizeName(currentName)
	if err != nil {
		s.audit.RecordFailure(ctx, actionUpdatePerson, entityPerson, currentName, err, systemActor)
		return person.Person{}, err
	}
	replacement, err := person.NormalizeName(newName)
	if err != nil {
		s.audit.RecordFailure(ctx, actionUpdatePerson, entityPerson, current, err, systemActor)
		return person.Person{}, err
	}

	p, err := s.people.RenamePerson(ctx, current, replacement, s.now())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			err = apperrors.WithMetadata(apperrors.CodePersonNotFound,
				fmt.Sprintf("person %q not found", current),
				map[string]string{"name": current})
		case errors.Is(err, storage.ErrAlreadyExists):
			err = apperrors.WithMetadata(apperrors.CodePersonAlreadyExists,
				fmt.Sprintf("person %q already exists", replacement),
				map[string]string{"name": replacement})
		}
		s.audit.RecordFailure(ctx, actionUpdatePerson, entityPerson, current, err, systemActor)
		return person.Person{}, err
	}

	s.audit.RecordSuccess(ctx, actionUpdatePerson, entityPerson, p.ID,
		fmt.Sprintf("Renamed person: %s to %s", current, replacement), systemActor)
	return p, nil
}

// GetPerson returns the person joined with its career projection. A missing
// name reports found=false without an error: read paths tolerate absence.
func (s *Service) GetPerson(ctx context.Context, name string) (storage.PersonAstronaut, bool, error) {
	if s == nil || s.people == nil {
		return storage.PersonAstronaut{}, false, apperrors.New(apperrors.CodeStorage, "person store is not configured")
	}

	row, err := s.people.GetPersonAstronautByName(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.PersonAstronaut{}, false, nil
		}
		return storage.PersonAstronaut{}, false, fmt.Errorf("get person: %w", err)
	}
	return row, true, nil
}

// ListPeople returns all people joined with their career projection.
func (s *Service) ListPeople(ctx context.Context) ([]storage.PersonAstronaut, error) {
	if s == nil || s.people == nil {
		return nil, apperrors.New(apperrors.CodeStorage, "person store is not configured")
	}
	return s.people.ListPeople(ctx)
}

// AssignDuty runs the duty assignment engine for one request: validate,
// resolve the person, then apply the close-previous/upsert-projection/open-new
// effect as a single storage transaction. The new duty is returned.
func (s *Service) AssignDuty(ctx context.Context, request duty.Assignment) (duty.Duty, error) {
	if s == nil || s.people == nil || s.duties == nil {
		return duty.Duty{}, apperrors.New(apperrors.CodeStorage, "roster stores are not configured")
	}

	assignment, err := duty.NormalizeAssignment(request)
	if err != nil {
		s.audit.RecordFailure(ctx, actionAssignDuty, entityDuty, request.Name, err, systemActor)
		return duty.Duty{}, err
	}

	p, err := s.people.GetPersonByName(ctx, assignment.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = apperrors.WithMetadata(apperrors.CodePersonNotFound,
				fmt.Sprintf("person %q not found", assignment.Name),
				map[string]string{"name": assignment.Name})
		}
		s.audit.RecordFailure(ctx, actionAssignDuty, entityDuty, assignment.Name, err, systemActor)
		return duty.Duty{}, err
	}

	dutyID, err := s.newID()
	if err != nil {
		err = fmt.Errorf("generate duty id: %w", err)
		s.audit.RecordFailure(ctx, actionAssignDuty, entityDuty, assignment.Name, err, systemActor)
		return duty.Duty{}, err
	}

	created, err := s.duties.AssignDuty(ctx, storage.AssignDutyParams{
		DutyID:   dutyID,
		PersonID: p.ID,
		Rank:     assignment.Rank,
		Title:    assignment.Title,
		Status:   assignment.Status,
		Start:    assignment.Start,
	})
	if err != nil {
		if errors.Is(err, storage.ErrActiveDutyExists) {
			err = apperrors.WithMetadata(apperrors.CodeActiveDutyExists,
				fmt.Sprintf("person %q already has an active duty", assignment.Name),
				map[string]string{"name": assignment.Name})
		}
		s.audit.RecordFailure(ctx, actionAssignDuty, entityDuty, assignment.Name, err, systemActor)
		return duty.Duty{}, err
	}

	s.audit.RecordSuccess(ctx, actionAssignDuty, entityDuty, created.ID,
		fmt.Sprintf("Created duty: %s for %s", created.Title, assignment.Name), systemActor)
	return created, nil
}

// GetOpenDuty returns the person's current duty. A person without an open
// duty reports found=false without an error; an unknown person fails with
// a not-found error.
func (s *Service) GetOpenDuty(ctx context.Context, name string) (duty.Duty, bool, error) {
	if s == nil || s.people == nil || s.duties == nil {
		return duty.Duty{}, false, apperrors.New(apperrors.CodeStorage, "roster stores are not configured")
	}

	p, err := s.people.GetPersonByName(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return duty.Duty{}, false, apperrors.WithMetadata(apperrors.CodePersonNotFound,
				fmt.Sprintf("person %q not found", name),
				map[string]string{"name": name})
		}
		return duty.Duty{}, false, fmt.Errorf("get person: %w", err)
	}

	open, err := s.duties.GetOpenDuty(ctx, p.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return duty.Duty{}, false, nil
		}
		return duty.Duty{}, false, fmt.Errorf("get open duty: %w", err)
	}
	return open, true, nil
}

// ListDuties returns a person's career projection view and duty history,
// newest duty first. A missing person fails with a not-found error, matching
// the duty-history endpoint contract.
func (s *Service) ListDuties(ctx context.Context, name string) (storage.PersonAstronaut, []duty.Duty, error) {
	if s == nil || s.people == nil || s.duties == nil {
		return storage.PersonAstronaut{}, nil, apperrors.New(apperrors.CodeStorage, "roster stores are not configured")
	}

	row, err := s.people.GetPersonAstronautByName(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.PersonAstronaut{}, nil, apperrors.WithMetadata(apperrors.CodePersonNotFound,
				fmt.Sprintf("person %q not found", name),
				map[string]string{"name": name})
		}
		return storage.PersonAstronaut{}, nil, fmt.Errorf("get person: %w", err)
	}

	duties, err := s.duties.ListDutiesByPerson(ctx, row.PersonID)
	if err != nil {
		return storage.PersonAstronaut{}, nil, fmt.Errorf("list duties: %w", err)
	}
	return row, duties, nil
}
