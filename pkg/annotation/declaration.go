// Package annotation turns delay-annotation sources into timing graphs.
//
// A source emits an ordered stream of node and arc declarations. Build
// replays that stream into a timing.Graph, so the adjacency order of the
// graph is exactly the order in which the source declared its arcs.
package annotation

import (
	"fmt"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// DeclKind distinguishes node declarations from arc declarations.
type DeclKind uint8

const (
	DeclNode DeclKind = iota
	DeclArc
)

func (k DeclKind) String() string {
	switch k {
	case DeclNode:
		return "node"
	case DeclArc:
		return "arc"
	default:
		return fmt.Sprintf("DeclKind(%d)", k)
	}
}

// Declaration is one entry of a declaration stream.
type Declaration struct {
	Kind DeclKind

	// Node is set for DeclNode.
	Node timing.NodeID

	// From, To and Delay are set for DeclArc. ArcKind and Cell are optional
	// metadata carried onto the graph edge.
	From    timing.NodeID
	To      timing.NodeID
	Delay   float64
	ArcKind timing.ArcKind
	Cell    string
}

// NodeDecl declares a pin.
func NodeDecl(id timing.NodeID) Declaration {
	return Declaration{Kind: DeclNode, Node: id}
}

// ArcDecl declares an arc.
func ArcDecl(from, to timing.NodeID, delay float64) Declaration {
	return Declaration{Kind: DeclArc, From: from, To: to, Delay: delay}
}

func (d Declaration) String() string {
	if d.Kind == DeclNode {
		return fmt.Sprintf("node %s", d.Node)
	}
	return fmt.Sprintf("arc %s -> %s %g", d.From, d.To, d.Delay)
}

// Source produces declarations in emitted order.
type Source interface {
	Declarations() ([]Declaration, error)
}

// Declarations is an in-memory Source.
type Declarations []Declaration

// Declarations returns a copy of the list.
func (d Declarations) Declarations() ([]Declaration, error) {
	return append([]Declaration(nil), d...), nil
}

// Document is a parsed annotation file: a declaration stream plus the
// hierarchy divider the file declares.
type Document struct {
	divider string
	decls   []Declaration
}

// Divider returns the hierarchy separator declared by the document, or ""
// when it declares none.
func (d *Document) Divider() string {
	return d.divider
}

// Declarations returns a copy of the document's declarations.
func (d *Document) Declarations() ([]Declaration, error) {
	return append([]Declaration(nil), d.decls...), nil
}

// Len returns the number of declarations.
func (d *Document) Len() int {
	return len(d.decls)
}
