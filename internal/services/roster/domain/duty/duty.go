// Package duty models astronaut duty assignments and the career derivation
// rules applied when a new duty supersedes the current one.
package duty

import (
	"strings"
	"time"

	apperrors "github.com/astrocorps/stargate/internal/platform/errors"
)

// Validation errors shared by the assignment engine and the API layer.
var (
	ErrEmptyRank       = apperrors.New(apperrors.CodeDutyRankEmpty, "duty rank is required")
	ErrEmptyTitle      = apperrors.New(apperrors.CodeDutyTitleEmpty, "duty title is required")
	ErrMissingStart    = apperrors.New(apperrors.CodeDutyStartDateMissing, "duty start date is required")
	ErrInvalidStatus   = apperrors.New(apperrors.CodeDutyInvalidStatus, "duty status must be ACTIVE or RETIRED")
	ErrEmptyPersonName = apperrors.New(apperrors.CodePersonNameEmpty, "person name is required")
)

// Status classifies a duty assignment. Retirement is a first-class status
// rather than a magic duty-title string; the title stays free text.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusRetired Status = "RETIRED"
)

// retiredTitle is the duty title legacy clients use to mark retirement.
const retiredTitle = "RETIRED"

// ParseStatus maps a request status string to a Status.
// The empty string defaults to StatusActive.
func ParseStatus(value string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", string(StatusActive):
		return StatusActive, nil
	case string(StatusRetired):
		return StatusRetired, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Duty is one entry in a person's duty history. EndDate is nil while the
// duty is the person's current assignment; at most one duty per person may
// be open at a time.
type Duty struct {
	ID       string
	PersonID string
	Rank     string
	Title    string
	Status   Status
	Start    time.Time
	End      *time.Time
}

// Detail is the derived one-row-per-person career summary. It exists iff
// the person has ever been assigned a duty, and is written only by the
// assignment engine.
type Detail struct {
	PersonID    string
	Rank        string
	Title       string
	CareerStart time.Time
	CareerEnd   *time.Time
	UpdatedAt   time.Time
}

// Assignment is a validated duty-creation request.
type Assignment struct {
	Name   string
	Rank   string
	Title  string
	Status Status
	Start  time.Time
}

// NormalizeAssignment trims and validates a duty-creation request and
// truncates the start date to day granularity.
//
// A duty titled "RETIRED" is normalized to StatusRetired so that requests
// from clients predating the explicit status field keep their retirement
// semantics.
func NormalizeAssignment(a Assignment) (Assignment, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Rank = strings.TrimSpace(a.Rank)
	a.Title = strings.TrimSpace(a.Title)

	if a.Name == "" {
		return Assignment{}, ErrEmptyPersonName
	}
	if a.Rank == "" {
		return Assignment{}, ErrEmptyRank
	}
	if a.Title == "" {
		return Assignment{}, ErrEmptyTitle
	}
	if a.Start.IsZero() {
		return Assignment{}, ErrMissingStart
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	if a.Status != StatusActive && a.Status != StatusRetired {
		return Assignment{}, ErrInvalidStatus
	}
	if a.Title == retiredTitle {
		a.Status = StatusRetired
	}
	a.Start = TruncateToDay(a.Start)
	return a, nil
}

// TruncateToDay drops the time-of-day component, keeping UTC midnight.
// Day granularity keeps the end/start arithmetic unambiguous: consecutive
// duties are chronologically adjacent with zero gap and zero overlap.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayBefore returns the day before t at day granularity. It is the end
// date assigned to a superseded duty and to a retired career window.
func DayBefore(t time.Time) time.Time {
	return TruncateToDay(t).AddDate(0, 0, -1)
}

// CareerEndFor derives the career end date for an assignment. Only a
// retirement closes the career window, one day before it starts; any other
// assignment leaves the window open.
func CareerEndFor(status Status, start time.Time) *time.Time {
	if status != StatusRetired {
		return nil
	}
	end := DayBefore(start)
	return &end
}
