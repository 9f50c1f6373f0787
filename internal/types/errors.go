package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoResolvers is reported by publishers handed an empty resolver list.
var ErrNoResolvers = errors.New("no resolvers available")

// ResolverFailure records why one resolver did not accept a publication.
type ResolverFailure struct {
	Resolver string
	Err      error
}

// PublishError is returned when one or more resolvers could not be
// reached or rejected the module. Failures keep resolver order.
type PublishError struct {
	Module   ModuleID
	Failures []ResolverFailure
	Cause    error
}

func (e *PublishError) Error() string {
	if e.Cause != nil && len(e.Failures) == 0 {
		return fmt.Sprintf("publish %s failed: %v", e.Module, e.Cause)
	}
	parts := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", failure.Resolver, failure.Err))
	}
	return fmt.Sprintf("publish %s failed: %s", e.Module, strings.Join(parts, "; "))
}

func (e *PublishError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures)+1)
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	for _, failure := range e.Failures {
		out = append(out, failure.Err)
	}
	return out
}

// Resolvers returns the names of the failing resolvers in order.
func (e *PublishError) Resolvers() []string {
	names := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		names = append(names, failure.Resolver)
	}
	return names
}

type DescriptorFailureKind string

const (
	DescriptorFailureMalformed DescriptorFailureKind = "malformed"
	DescriptorFailureIO        DescriptorFailureKind = "io"
)

// DescriptorWriteError is returned by descriptor writers. Kind separates
// content problems from environmental ones.
type DescriptorWriteError struct {
	Kind DescriptorFailureKind
	Path string
	Err  error
}

func (e *DescriptorWriteError) Error() string {
	return fmt.Sprintf("write descriptor %s (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *DescriptorWriteError) Unwrap() error {
	return e.Err
}

// UncheckedIOError reports an environmental failure while writing a file
// the operation could not do without.
type UncheckedIOError struct {
	Path string
	Err  error
}

func (e *UncheckedIOError) Error() string {
	return fmt.Sprintf("i/o failure on %s: %v", e.Path, e.Err)
}

func (e *UncheckedIOError) Unwrap() error {
	return e.Err
}

// InvariantViolation is raised (as a panic value) when the configuration
// model breaks a guarantee callers rely on. It signals a bug upstream.
type InvariantViolation struct {
	Invariant string
	Subject   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated for %s: %s", e.Subject, e.Invariant)
}
