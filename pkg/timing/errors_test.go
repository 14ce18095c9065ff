package timing

import (
	"errors"
	"fmt"
	"testing"
)

func TestGraphError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *GraphError
		expected string
	}{
		{
			name: "with node",
			err: &GraphError{
				Op:     "AddEdge",
				Entity: "node",
				Node:   "Inst_A/Q",
				Cause:  ErrUnknownNode,
			},
			expected: `AddEdge node "Inst_A/Q": unknown node`,
		},
		{
			name: "with node and context",
			err: &GraphError{
				Op:      "DelayPath",
				Entity:  "node",
				Node:    "B",
				Context: "from A",
				Cause:   ErrNoPath,
			},
			expected: `DelayPath node "B" (from A): no path`,
		},
		{
			name: "with field",
			err: &GraphError{
				Op:     "EarliestCommonNodes",
				Entity: "argument",
				Field:  "mode",
				Cause:  ErrInvalidArgument,
			},
			expected: "EarliestCommonNodes argument mode: invalid argument",
		},
		{
			name: "with field and context",
			err: &GraphError{
				Op:      "FollowFirstFanout",
				Entity:  "argument",
				Field:   "hops",
				Context: "must be >= 0",
				Cause:   ErrInvalidArgument,
			},
			expected: "FollowFirstFanout argument hops (must be >= 0): invalid argument",
		},
		{
			name: "with context only",
			err: &GraphError{
				Op:      "AddEdge",
				Entity:  "arc",
				Context: "A -> B",
				Cause:   ErrGraphFrozen,
			},
			expected: "AddEdge arc (A -> B): graph is frozen",
		},
		{
			name: "minimal",
			err: &GraphError{
				Op:     "Build",
				Entity: "graph",
				Cause:  fmt.Errorf("boom"),
			},
			expected: "Build graph: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGraphError_IsAndUnwrap(t *testing.T) {
	err := UnknownNodeError("Successors", "X")

	if !errors.Is(err, ErrUnknownNode) {
		t.Error("errors.Is(err, ErrUnknownNode) = false")
	}
	if errors.Is(err, ErrInvalidDelay) {
		t.Error("unknown node error should not match ErrInvalidDelay")
	}

	var ge *GraphError
	if !errors.As(err, &ge) {
		t.Fatal("errors.As failed to extract *GraphError")
	}
	if ge.Node != "X" || ge.Op != "Successors" {
		t.Errorf("unexpected fields: %+v", ge)
	}

	wrapped := fmt.Errorf("load graph: %w", err)
	if !IsUnknownNode(wrapped) {
		t.Error("IsUnknownNode should see through wrapping")
	}
	if (&GraphError{}).Is(nil) {
		t.Error("Is(nil) should be false")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if err := InvalidDelayError("AddEdge", "A", "B", -1); !IsInvalidDelay(err) {
		t.Errorf("InvalidDelayError not classified: %v", err)
	}
	if err := InvalidArgumentError("op", "mode", "bad"); !IsInvalidArgument(err) {
		t.Errorf("InvalidArgumentError not classified: %v", err)
	}
	if err := NoPathError("DelayPath", "A", "B"); !errors.Is(err, ErrNoPath) {
		t.Errorf("NoPathError not classified: %v", err)
	}

	got := InvalidDelayError("AddEdge", "A", "B", -2.5).Error()
	want := "AddEdge arc (A -> B, delay -2.5): invalid delay"
	if got != want {
		t.Errorf("InvalidDelayError message = %q, want %q", got, want)
	}
}
