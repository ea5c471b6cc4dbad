package apiclient

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed call.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindServer     Kind = "server"
)

var (
	ErrNetwork    = errors.New("quiz backend unreachable")
	ErrAuth       = errors.New("authorization rejected")
	ErrValidation = errors.New("request rejected by backend")
	ErrServer     = errors.New("backend request failed")
)

type APIError struct {
	Kind       Kind
	StatusCode int
	// Message is the server-provided message, when the response carried one.
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case strings.TrimSpace(e.Message) != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	default:
		return e.sentinel().Error()
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Is lets callers match on the kind sentinels with errors.Is.
func (e *APIError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *APIError) sentinel() error {
	switch e.Kind {
	case KindNetwork:
		return ErrNetwork
	case KindAuth:
		return ErrAuth
	case KindValidation:
		return ErrValidation
	default:
		return ErrServer
	}
}

// KindOf reports the classification of err, or "" if it did not come from the client.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// ServerMessage returns the raw server message carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return strings.TrimSpace(apiErr.Message)
	}
	return ""
}

func kindForStatus(status int) Kind {
	switch {
	case status == 401:
		return KindAuth
	case status == 400:
		return KindValidation
	default:
		return KindServer
	}
}
