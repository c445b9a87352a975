// Package storage defines the persistence interfaces and record shapes for
// the roster service: person identities, the duty history, the derived
// career projection, and the audit trail.
package storage
