package timing

import "strings"

// DefaultHierSep is the hierarchy divider used when an annotation does not
// declare one.
const DefaultHierSep = "/"

// NodeID is a hierarchical pin path such as "Inst_LUT4AB/J2END_AB_END2".
// Node identity, equality and hashing are all by path.
type NodeID string

// ArcKind records where a timing arc came from in the delay annotation.
type ArcKind uint8

const (
	// ArcUnspecified is used when the annotation carries no arc kind
	ArcUnspecified ArcKind = iota
	// ArcInterconnect is a net delay between two cell instances
	ArcInterconnect
	// ArcIOPath is a pin-to-pin propagation delay inside one cell instance
	ArcIOPath
)

// String returns the annotation keyword for the arc kind.
func (k ArcKind) String() string {
	switch k {
	case ArcInterconnect:
		return "INTERCONNECT"
	case ArcIOPath:
		return "IOPATH"
	default:
		return "UNSPECIFIED"
	}
}

// ParseArcKind converts an annotation keyword to an ArcKind.
// Matching is case-insensitive; unknown keywords map to ArcUnspecified.
func ParseArcKind(s string) ArcKind {
	switch strings.ToLower(s) {
	case "interconnect":
		return ArcInterconnect
	case "iopath":
		return ArcIOPath
	default:
		return ArcUnspecified
	}
}

// Edge is a directed timing arc. Delay is non-negative and uses the time unit
// of the source annotation.
type Edge struct {
	From  NodeID
	To    NodeID
	Delay float64
	Kind  ArcKind
	Cell  string // cell type, e.g. "sky130_fd_sc_hd__buf_1"
}

// Successor is one outgoing adjacency entry: the neighbour and the delay of
// the arc leading to it.
type Successor struct {
	Node  NodeID
	Delay float64
}

// Predecessor is one incoming adjacency entry.
type Predecessor struct {
	Node  NodeID
	Delay float64
}

// SplitInstancePin splits a hierarchical pin path at the last separator.
// "_2988_/Q" with "/" yields ("_2988_", "Q"); a name without the separator is
// a top-level port and yields ("", name).
func SplitInstancePin(name, sep string) (instance, pin string) {
	if sep == "" {
		return "", name
	}
	idx := strings.LastIndex(name, sep)
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+len(sep):]
}
