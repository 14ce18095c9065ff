package annotation

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-timing/pkg/timing"
	"github.com/dd0wney/cluso-timing/pkg/validation"
)

// ParseYAML reads a YAML declaration document. Nodes are declared first, in
// listed order, followed by arcs in listed order. Arcs given as delay_paths
// are reduced with the document's delay_selector.
//
// Unknown keys are rejected.
func ParseYAML(r io.Reader) (*Document, error) {
	return ParseYAMLWithSelector(r, "")
}

// ParseYAMLWithSelector is ParseYAML with a fallback delay selector for
// documents that do not name one.
func ParseYAMLWithSelector(r io.Reader, fallback timing.DelaySelector) (*Document, error) {
	var raw validation.DeclarationDocument

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode declaration document: %w", err)
	}

	if err := validation.ValidateDeclarationDocument(&raw); err != nil {
		return nil, fmt.Errorf("invalid declaration document: %w", err)
	}

	return fromDocument(&raw, fallback)
}

func fromDocument(raw *validation.DeclarationDocument, fallback timing.DelaySelector) (*Document, error) {
	name := raw.DelaySelector
	if name == "" {
		name = string(fallback)
	}
	sel, err := timing.ParseDelaySelector(name)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		divider: raw.Divider,
		decls:   make([]Declaration, 0, len(raw.Nodes)+len(raw.Arcs)),
	}
	for _, n := range raw.Nodes {
		doc.decls = append(doc.decls, NodeDecl(timing.NodeID(n)))
	}

	for i, a := range raw.Arcs {
		d := ArcDecl(timing.NodeID(a.From), timing.NodeID(a.To), 0)
		d.ArcKind = timing.ParseArcKind(a.Kind)
		d.Cell = a.Cell

		if a.Delay != nil {
			d.Delay = *a.Delay
		} else {
			d.Delay, err = a.DelayPaths.Reduce(sel)
			if err != nil {
				return nil, fmt.Errorf("arcs[%d]: %w", i, err)
			}
		}
		doc.decls = append(doc.decls, d)
	}

	return doc, nil
}
