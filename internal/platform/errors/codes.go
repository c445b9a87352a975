// Package errors provides structured error handling for the roster backend.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidArgument represents malformed caller input that has no
	// more specific code.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Person errors
	CodePersonNameEmpty     Code = "PERSON_NAME_EMPTY"
	CodePersonNotFound      Code = "PERSON_NOT_FOUND"
	CodePersonAlreadyExists Code = "PERSON_ALREADY_EXISTS"

	// Duty errors
	CodeDutyRankEmpty        Code = "DUTY_RANK_EMPTY"
	CodeDutyTitleEmpty       Code = "DUTY_TITLE_EMPTY"
	CodeDutyStartDateMissing Code = "DUTY_START_DATE_MISSING"
	CodeDutyInvalidStatus    Code = "DUTY_INVALID_STATUS"
	CodeActiveDutyExists     Code = "ACTIVE_DUTY_EXISTS"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeStorage       Code = "STORAGE_FAILURE"
)

// Kind groups codes into the four caller-facing failure classes.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL"
)

// Kind maps a code to its failure class.
func (c Code) Kind() Kind {
	switch c {
	case CodeInvalidArgument, CodePersonNameEmpty, CodeDutyRankEmpty,
		CodeDutyTitleEmpty, CodeDutyStartDateMissing, CodeDutyInvalidStatus:
		return KindValidation
	case CodePersonNotFound, CodeNotFound:
		return KindNotFound
	case CodePersonAlreadyExists, CodeActiveDutyExists, CodeAlreadyExists:
		return KindConflict
	default:
		return KindInternal
	}
}

// HTTPStatus maps a failure class to the transport status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
