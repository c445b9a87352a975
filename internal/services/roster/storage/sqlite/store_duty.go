package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/astrocorps/stargate/internal/services/roster/domain/duty"
	"github.com/astrocorps/stargate/internal/services/roster/storage"
)

func dutyStatusFromString(value string) (duty.Status, error) {
	switch value {
	case string(duty.StatusActive):
		return duty.StatusActive, nil
	case string(duty.StatusRetired):
		return duty.StatusRetired, nil
	default:
		return "", fmt.Errorf("unknown duty status %q", value)
	}
}

// AssignDuty applies one duty assignment as a single transaction: the
// person's open duty, if any, is closed the day before the new start, the
// career projection is upserted, and the new duty is inserted open.
//
// The open-duty lookup runs in the same transaction as the writes, and the
// partial unique index on open duties backstops the one-open-duty rule at
// the schema level; a lost race surfaces as storage.ErrActiveDutyExists
// instead of a second open duty.
func (s *Store) AssignDuty(ctx context.Context, params storage.AssignDutyParams) (duty.Duty, error) {
	if err := ctx.Err(); err != nil {
		return duty.Duty{}, err
	}
	if s == nil || s.sqlDB == nil {
		return duty.Duty{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(params.DutyID) == "" {
		return duty.Duty{}, fmt.Errorf("duty id is required")
	}
	if strings.TrimSpace(params.PersonID) == "" {
		return duty.Duty{}, fmt.Errorf("person id is required")
	}
	if params.Start.IsZero() {
		return duty.Duty{}, fmt.Errorf("duty start date is required")
	}
	if params.Status != duty.StatusActive && params.Status != duty.StatusRetired {
		return duty.Duty{}, fmt.Errorf("unknown duty status %q", params.Status)
	}

	start := duty.TruncateToDay(params.Start)
	previousEnd := duty.DayBefore(start)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return duty.Duty{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The previous duty is closed regardless of its status: a retired duty
	// superseded by a new assignment re-enters the person into service.
	var openDutyID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM astronaut_duties WHERE person_id = ? AND end_date IS NULL`,
		params.PersonID,
	).Scan(&openDutyID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return duty.Duty{}, fmt.Errorf("get open duty: %w", err)
	}

	if openDutyID != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE astronaut_duties SET end_date = ? WHERE id = ?`,
			toMillis(previousEnd), openDutyID,
		); err != nil {
			return duty.Duty{}, fmt.Errorf("close open duty: %w", err)
		}
	}

	if err := upsertDetail(ctx, tx, params, start); err != nil {
		return duty.Duty{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO astronaut_duties (id, person_id, rank, title, status, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		params.DutyID, params.PersonID, params.Rank, params.Title,
		string(params.Status), toMillis(start),
	); err != nil {
		if isUniqueViolation(err, "astronaut_duties.person_id") {
			return duty.Duty{}, storage.ErrActiveDutyExists
		}
		return duty.Duty{}, fmt.Errorf("insert duty: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return duty.Duty{}, fmt.Errorf("commit tx: %w", err)
	}

	return duty.Duty{
		ID:       params.DutyID,
		PersonID: params.PersonID,
		Rank:     params.Rank,
		Title:    params.Title,
		Status:   params.Status,
		Start:    start,
	}, nil
}

// upsertDetail creates or updates the career projection inside the
// assignment transaction. Career start is written once at the first
// assignment and never touched again; career end tracks retirement state,
// clearing when a new non-retired duty supersedes a retirement.
func upsertDetail(ctx context.Context, tx *sql.Tx, params storage.AssignDutyParams, start time.Time) error {
	careerEnd := toNullMillis(duty.CareerEndFor(params.Status, start))
	updatedAt := toMillis(time.Now().UTC())

	var existing string
	err := tx.QueryRowContext(ctx,
		`SELECT person_id FROM astronaut_details WHERE person_id = ?`,
		params.PersonID,
	).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO astronaut_details (person_id, current_rank, current_duty_title, career_start, career_end, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			params.PersonID, params.Rank, params.Title, toMillis(start), careerEnd, updatedAt,
		); err != nil {
			return fmt.Errorf("insert detail: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("get detail: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE astronaut_details
		 SET current_rank = ?, current_duty_title = ?, career_end = ?, updated_at = ?
		 WHERE person_id = ?`,
		params.Rank, params.Title, careerEnd, updatedAt, params.PersonID,
	); err != nil {
		return fmt.Errorf("update detail: %w", err)
	}
	return nil
}

const dutyColumns = `id, person_id, rank, title, status, start_date, end_date`

func scanDuty(scan func(dest ...any) error) (duty.Duty, error) {
	var (
		d       duty.Duty
		status  string
		start   int64
		endDate sql.NullInt64
	)
	if err := scan(&d.ID, &d.PersonID, &d.Rank, &d.Title, &status, &start, &endDate); err != nil {
		return duty.Duty{}, err
	}
	parsed, err := dutyStatusFromString(status)
	if err != nil {
		return duty.Duty{}, err
	}
	d.Status = parsed
	d.Start = fromMillis(start)
	d.End = fromNullMillis(endDate)
	return d, nil
}

// ListDutiesByPerson returns a person's duty history ordered by start date
// descending.
func (s *Store) ListDutiesByPerson(ctx context.Context, personID string) ([]duty.Duty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+dutyColumns+` FROM astronaut_duties WHERE person_id = ? ORDER BY start_date DESC`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list duties: %w", err)
	}
	defer rows.Close()

	var duties []duty.Duty
	for rows.Next() {
		d, err := scanDuty(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan duty: %w", err)
		}
		duties = append(duties, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list duties: %w", err)
	}
	return duties, nil
}

// GetOpenDuty returns the person's current duty, or storage.ErrNotFound
// when no duty is open.
func (s *Store) GetOpenDuty(ctx context.Context, personID string) (duty.Duty, error) {
	if err := ctx.Err(); err != nil {
		return duty.Duty{}, err
	}
	if s == nil || s.sqlDB == nil {
		return duty.Duty{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+dutyColumns+` FROM astronaut_duties WHERE person_id = ? AND end_date IS NULL`,
		personID,
	)
	d, err := scanDuty(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return duty.Duty{}, storage.ErrNotFound
		}
		return duty.Duty{}, fmt.Errorf("get open duty: %w", err)
	}
	return d, nil
}

// GetDetail returns the person's career projection, or storage.ErrNotFound
// when the person has never been assigned a duty.
func (s *Store) GetDetail(ctx context.Context, personID string) (duty.Detail, error) {
	if err := ctx.Err(); err != nil {
		return duty.Detail{}, err
	}
	if s == nil || s.sqlDB == nil {
		return duty.Detail{}, fmt.Errorf("storage is not configured")
	}

	var (
		detail      duty.Detail
		careerStart int64
		careerEnd   sql.NullInt64
		updatedAt   int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT person_id, current_rank, current_duty_title, career_start, career_end, updated_at
		 FROM astronaut_details WHERE person_id = ?`,
		personID,
	).Scan(&detail.PersonID, &detail.Rank, &detail.Title, &careerStart, &careerEnd, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return duty.Detail{}, storage.ErrNotFound
		}
		return duty.Detail{}, fmt.Errorf("get detail: %w", err)
	}
	detail.CareerStart = fromMillis(careerStart)
	detail.CareerEnd = fromNullMillis(careerEnd)
	detail.UpdatedAt = fromMillis(updatedAt)
	return detail, nil
}

var _ storage.DutyStore = (*Store)(nil)
