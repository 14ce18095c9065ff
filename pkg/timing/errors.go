package timing

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrUnknownNode     = errors.New("unknown node")
	ErrInvalidDelay    = errors.New("invalid delay")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrGraphFrozen     = errors.New("graph is frozen")
	ErrNoPath          = errors.New("no path")
	ErrUnknownInstance = errors.New("unknown instance")
)

// GraphError provides structured error information for graph construction
// and query operations.
type GraphError struct {
	Op      string // Operation that failed (e.g., "AddEdge", "EarliestCommonNodes")
	Entity  string // Entity type (e.g., "node", "arc", "argument")
	Node    NodeID // Offending node (if applicable)
	Field   string // Argument name (for argument errors)
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Node != "" {
		if e.Context != "" {
			return fmt.Sprintf("%s %s %q (%s): %v", e.Op, e.Entity, e.Node, e.Context, e.Cause)
		}
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.Node, e.Cause)
	}
	if e.Field != "" {
		if e.Context != "" {
			return fmt.Sprintf("%s %s %s (%s): %v", e.Op, e.Entity, e.Field, e.Context, e.Cause)
		}
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.Field, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op}}
}

// Node sets the entity to "node" with the given id.
func (b *ErrorBuilder) Node(id NodeID) *ErrorBuilder {
	b.err.Entity = "node"
	b.err.Node = id
	return b
}

// Arc sets the entity to "arc" and records both endpoints as context.
func (b *ErrorBuilder) Arc(from, to NodeID) *ErrorBuilder {
	b.err.Entity = "arc"
	b.err.Context = fmt.Sprintf("%s -> %s", from, to)
	return b
}

// Argument sets the entity to "argument" with the given name.
func (b *ErrorBuilder) Argument(name string) *ErrorBuilder {
	b.err.Entity = "argument"
	b.err.Field = name
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed GraphError.
func (b *ErrorBuilder) Build() *GraphError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// Convenience functions for common error patterns

// UnknownNodeError reports that op referenced a node absent from the graph.
func UnknownNodeError(op string, id NodeID) error {
	return NewError(op).Node(id).Cause(ErrUnknownNode).Err()
}

// InvalidDelayError reports a negative (or NaN) delay on the arc from -> to.
func InvalidDelayError(op string, from, to NodeID, delay float64) error {
	b := NewError(op).Arc(from, to).Cause(ErrInvalidDelay)
	b.err.Context = fmt.Sprintf("%s -> %s, delay %v", from, to, delay)
	return b.Err()
}

// InvalidArgumentError reports an unsupported argument value.
func InvalidArgumentError(op, name, reason string) error {
	return NewError(op).Argument(name).Context(reason).Cause(ErrInvalidArgument).Err()
}

// NoPathError reports that target cannot be reached from source.
func NoPathError(op string, source, target NodeID) error {
	return NewError(op).Node(target).Context("from " + string(source)).Cause(ErrNoPath).Err()
}

// UnknownInstanceError reports that op named a cell instance with no arcs.
func UnknownInstanceError(op, instance string) error {
	b := NewError(op).Cause(ErrUnknownInstance)
	b.err.Entity = "instance"
	b.err.Node = NodeID(instance)
	return b.Err()
}

// IsUnknownNode returns true if the error is an unknown node error.
func IsUnknownNode(err error) bool {
	return errors.Is(err, ErrUnknownNode)
}

// IsInvalidDelay returns true if the error is an invalid delay error.
func IsInvalidDelay(err error) bool {
	return errors.Is(err, ErrInvalidDelay)
}

// IsInvalidArgument returns true if the error is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnknownInstance returns true if the error is an unknown instance error.
func IsUnknownInstance(err error) bool {
	return errors.Is(err, ErrUnknownInstance)
}
