package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/astrocorps/stargate/internal/services/roster/domain/person"
	"github.com/astrocorps/stargate/internal/services/roster/storage"
)

// CreatePerson inserts one person record. A taken name fails with
// storage.ErrAlreadyExists.
func (s *Store) CreatePerson(ctx context.Context, p person.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("person id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("person name is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO people (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "people.name") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// GetPersonByName returns the person with the exact name, or storage.ErrNotFound.
func (s *Store) GetPersonByName(ctx context.Context, name string) (person.Person, error) {
	if err := ctx.Err(); err != nil {
		return person.Person{}, err
	}
	if s == nil || s.sqlDB == nil {
		return person.Person{}, fmt.Errorf("storage is not configured")
	}

	var (
		p         person.Person
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM people WHERE name = ?`,
		name,
	).Scan(&p.ID, &p.Name, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return person.Person{}, storage.ErrNotFound
		}
		return person.Person{}, fmt.Errorf("get person: %w", err)
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

// RenamePerson changes a person's name in place inside one transaction.
// A missing person fails with storage.ErrNotFound and a taken new name
// with storage.ErrAlreadyExists.
func (s *Store) RenamePerson(ctx context.Context, currentName, newName string, updatedAt time.Time) (person.Person, error) {
	if err := ctx.Err(); err != nil {
		return person.Person{}, err
	}
	if s == nil || s.sqlDB == nil {
		return person.Person{}, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return person.Person{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		p         person.Person
		createdAt int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM people WHERE name = ?`,
		currentName,
	).Scan(&p.ID, &p.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return person.Person{}, storage.ErrNotFound
		}
		return person.Person{}, fmt.Errorf("get person: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE people SET name = ?, updated_at = ? WHERE id = ?`,
		newName, toMillis(updatedAt), p.ID,
	); err != nil {
		if isUniqueViolation(err, "people.name") {
			return person.Person{}, storage.ErrAlreadyExists
		}
		return person.Person{}, fmt.Errorf("rename person: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return person.Person{}, fmt.Errorf("commit tx: %w", err)
	}

	p.Name = newName
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}

const personAstronautQuery = `
SELECT p.id, p.name, d.current_rank, d.current_duty_title, d.career_start, d.career_end
FROM people p
LEFT JOIN astronaut_details d ON d.person_id = p.id`

func scanPersonAstronaut(scan func(dest ...any) error) (storage.PersonAstronaut, error) {
	var (
		row         storage.PersonAstronaut
		rank        sql.NullString
		title       sql.NullString
		careerStart sql.NullInt64
		careerEnd   sql.NullInt64
	)
	if err := scan(&row.PersonID, &row.Name, &rank, &title, &careerStart, &careerEnd); err != nil {
		return storage.PersonAstronaut{}, err
	}
	row.Rank = rank.String
	row.Title = title.String
	row.CareerStart = fromNullMillis(careerStart)
	row.CareerEnd = fromNullMillis(careerEnd)
	return row, nil
}

// GetPersonAstronautByName returns the person joined with its career
// projection, or storage.ErrNotFound.
func (s *Store) GetPersonAstronautByName(ctx context.Context, name string) (storage.PersonAstronaut, error) {
	if err := ctx.Err(); err != nil {
		return storage.PersonAstronaut{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PersonAstronaut{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, personAstronautQuery+` WHERE p.name = ?`, name)
	result, err := scanPersonAstronaut(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PersonAstronaut{}, storage.ErrNotFound
		}
		return storage.PersonAstronaut{}, fmt.Errorf("get person astronaut: %w", err)
	}
	return result, nil
}

// ListPeople returns all people joined with their career projection,
// ordered by name.
func (s *Store) ListPeople(ctx context.Context) ([]storage.PersonAstronaut, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, personAstronautQuery+` ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []storage.PersonAstronaut
	for rows.Next() {
		row, err := scanPersonAstronaut(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}

var _ storage.PersonStore = (*Store)(nil)
