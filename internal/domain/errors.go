package domain

import (
	"errors"
	"fmt"
)

// Error kind sentinels. Wrap one of these with fmt.Errorf("...: %w", ErrX)
// so callers can classify failures with errors.Is without string matching.
var (
	// ErrConfiguration marks a misconfiguration caught before any I/O — a
	// caller bug, not a transient condition. Never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation marks a record or batch that failed a Bronze validator
	// or Silver/Gold invariant check. Never retried; the data is the
	// problem, not the connection.
	ErrValidation = errors.New("validation error")

	// ErrTransient marks an I/O failure expected to succeed on retry
	// (connection reset, request timeout, 5xx from a provider).
	ErrTransient = errors.New("transient I/O error")

	// ErrPermanent marks an I/O failure that will not succeed on retry
	// (file not found, 4xx from a provider, missing index).
	ErrPermanent = errors.New("permanent I/O error")

	// ErrProvider marks a failure surfaced by an external embedding, search,
	// or LLM provider that does not cleanly fit transient/permanent.
	ErrProvider = errors.New("provider error")

	// ErrProgrammer marks an invariant violated by this codebase, not by
	// input data or an external system (e.g. an identifier that failed the
	// safe-identifier regex after already having been validated).
	ErrProgrammer = errors.New("programmer error")
)

// WrapConfiguration wraps err (or constructs a new error from msg if err is
// nil) tagged as ErrConfiguration.
func WrapConfiguration(msg string, err error) error {
	return wrap(ErrConfiguration, msg, err)
}

// WrapValidation wraps err tagged as ErrValidation.
func WrapValidation(msg string, err error) error {
	return wrap(ErrValidation, msg, err)
}

// WrapTransient wraps err tagged as ErrTransient.
func WrapTransient(msg string, err error) error {
	return wrap(ErrTransient, msg, err)
}

// WrapPermanent wraps err tagged as ErrPermanent.
func WrapPermanent(msg string, err error) error {
	return wrap(ErrPermanent, msg, err)
}

// WrapProvider wraps err tagged as ErrProvider.
func WrapProvider(msg string, err error) error {
	return wrap(ErrProvider, msg, err)
}

// WrapProgrammer wraps err tagged as ErrProgrammer.
func WrapProgrammer(msg string, err error) error {
	return wrap(ErrProgrammer, msg, err)
}

func wrap(kind error, msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", msg, kind)
	}
	return fmt.Errorf("%s: %w: %w", msg, kind, err)
}

// IsRetryable reports whether err is classified as retryable — currently
// only ErrTransient — without inspecting error strings.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
