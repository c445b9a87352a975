// Package person provides roster person identity management.
package person

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/astrocorps/stargate/internal/platform/errors"
	"github.com/astrocorps/stargate/internal/platform/id"
)

// ErrEmptyName indicates a missing person name.
var ErrEmptyName = apperrors.New(apperrors.CodePersonNameEmpty, "person name is required")

// Person represents a tracked crew member identity.
//
// The name is unique across all people and matched exactly, case included.
// Two names differing only in case identify two different people.
type Person struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeName trims surrounding whitespace and rejects empty names.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// NewPerson mints a durable person identity from an untrusted name.
//
// This is the canonical point where request input becomes a stable identity
// referenced by duty history and the career projection.
func NewPerson(name string, now func() time.Time, idGenerator func() (string, error)) (Person, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeName(name)
	if err != nil {
		return Person{}, err
	}

	personID, err := idGenerator()
	if err != nil {
		return Person{}, fmt.Errorf("generate person id: %w", err)
	}

	createdAt := now().UTC()
	return Person{
		ID:        personID,
		Name:      normalized,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}
