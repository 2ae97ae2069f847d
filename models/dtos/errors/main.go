package errors

import (
	"beacon/api/models/dtos"
	"fmt"
	"net/http"
	"time"
)

/*
	Typed error taxonomy for the beacon core, plus utility functions
	to facillitate returning error responses to HTTP clients
*/

// stable machine-readable codes carried on every error payload
const (
	CodeMalformedFilter   string = "malformed_filter"
	CodeUnknownFilterTerm string = "unknown_filter_term"
	CodeUnauthorized      string = "unauthorized"
	CodeForbidden         string = "forbidden"
	CodePolicyConfig      string = "policy_config"
	CodeServerError       string = "server_error"
)

// -- filter parsing / compilation

type MalformedFilterError struct {
	Token string
}

func (e *MalformedFilterError) Error() string {
	return fmt.Sprintf("malformed filter '%s' - expected 'ontology:term' or 'ontology:term<op>value'", e.Token)
}

type UnknownFilterTermError struct {
	Ontology string
	Term     string
}

func (e *UnknownFilterTermError) Error() string {
	return fmt.Sprintf("no column mapping for filter term '%s:%s'", e.Ontology, e.Term)
}

// -- access resolution

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// -- policy tree

type PolicyConfigError struct {
	Detail string
}

func (e *PolicyConfigError) Error() string {
	return fmt.Sprintf("access levels policy misconfigured: %s", e.Detail)
}

// -- collaborator I/O

type ServerError struct {
	Message string
	Err     error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// CodeOf maps a typed error to its stable machine-readable code.
func CodeOf(err error) string {
	switch err.(type) {
	case *MalformedFilterError:
		return CodeMalformedFilter
	case *UnknownFilterTermError:
		return CodeUnknownFilterTerm
	case *UnauthorizedError:
		return CodeUnauthorized
	case *ForbiddenError:
		return CodeForbidden
	case *PolicyConfigError:
		return CodePolicyConfig
	default:
		return CodeServerError
	}
}

// HttpStatusOf maps a typed error to the status its payload reports.
func HttpStatusOf(err error) int {
	switch err.(type) {
	case *MalformedFilterError, *UnknownFilterTermError:
		return http.StatusBadRequest
	case *UnauthorizedError:
		return http.StatusUnauthorized
	case *ForbiddenError:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// -- Simplest: 1 error with message
func CreateSimpleBadRequest(message string) dtos.GeneralErrorResponseDto {
	return dtos.GeneralErrorResponseDto{
		Code:      400,
		Message:   "Bad Request",
		Timestamp: time.Now(),
		Errors: []dtos.GeneralError{
			{
				ErrorCode: CodeMalformedFilter,
				Message:   message,
			},
		},
	}
}
func CreateSimpleUnauthorized(message string) dtos.GeneralErrorResponseDto {
	return dtos.GeneralErrorResponseDto{
		Code:      401,
		Message:   "Unauthorized",
		Timestamp: time.Now(),
		Errors: []dtos.GeneralError{
			{
				ErrorCode: CodeUnauthorized,
				Message:   message,
			},
		},
	}
}
func CreateSimpleInternalServerError(message string) dtos.GeneralErrorResponseDto {
	return dtos.GeneralErrorResponseDto{
		Code:      500,
		Message:   "Internal Server Error",
		Timestamp: time.Now(),
		Errors: []dtos.GeneralError{
			{
				ErrorCode: CodeServerError,
				Message:   message,
			},
		},
	}
}

// CreateFromError builds the structured payload for any typed core error.
func CreateFromError(err error) dtos.GeneralErrorResponseDto {
	status := HttpStatusOf(err)
	return dtos.GeneralErrorResponseDto{
		Code:      status,
		Message:   http.StatusText(status),
		Timestamp: time.Now(),
		Errors: []dtos.GeneralError{
			{
				ErrorCode: CodeOf(err),
				Message:   err.Error(),
			},
		},
	}
}
