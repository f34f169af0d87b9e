package infra

import (
	"errors"
	"fmt"
	"log/slog"

	"gotrip-checkout/internal/pkg/errs"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func WrapRepoErr(slogger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	logArgs := []any{
		slog.String("kind", string(kind)),
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("error", err.Error()))
	}

	if kind == KindNotFound || kind == KindLocked {
		slogger.Debug("Store miss: "+msg, logArgs...)
	} else {
		slogger.Error("Store error: "+msg, logArgs...)
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	var u *UpstreamError
	if errors.As(err, &u) {
		return u.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound            RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure           RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey        RepositoryErrorKind = "DUPLICATE_KEY"
	KindCacheFailure        RepositoryErrorKind = "CACHE_FAILURE"
	KindLocked              RepositoryErrorKind = "LOCKED"
	KindUpstreamRejected    RepositoryErrorKind = "UPSTREAM_REJECTED"
	KindUpstreamUnavailable RepositoryErrorKind = "UPSTREAM_UNAVAILABLE"
)

// UpstreamError is a failed call to another GoTrip service. Rejected means the service answered
// with a 4xx; Unavailable covers transport failures, timeouts and 5xx.
type UpstreamError struct {
	Kind    RepositoryErrorKind
	Service string
	Status  int
	// Message is the service's own explanation, if its body carried one.
	Message string
	err     error
}

func NewUpstreamError(kind RepositoryErrorKind, service string, status int, message string, err error) *UpstreamError {
	return &UpstreamError{Kind: kind, Service: service, Status: status, Message: message, err: err}
}

func (e *UpstreamError) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Service)
	if e.Status != 0 {
		s += fmt.Sprintf(" status %d", e.Status)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.err != nil {
		s += ": " + e.err.Error()
	}
	return s
}

func (e *UpstreamError) Unwrap() error {
	return e.err
}

// PublicMessage is what the upstream service wants the customer to see.
func (e *UpstreamError) PublicMessage() string {
	if e.Kind != KindUpstreamRejected {
		return ""
	}
	return e.Message
}

// Transient reports whether retrying the same call might succeed.
func (e *UpstreamError) Transient() bool {
	return e.Kind == KindUpstreamUnavailable
}
