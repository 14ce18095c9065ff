package timing

import "sort"

// An arc belongs to a cell instance when both of its pins sit directly
// under that instance. IOPATH arcs always do; interconnects only when they
// loop back into the same instance. Top-level ports belong to no instance.

// Interconnects returns the INTERCONNECT arcs in insertion order.
func (g *Graph) Interconnects() []Edge {
	return g.edgesOfKind(ArcInterconnect)
}

// IOPaths returns the IOPATH arcs in insertion order.
func (g *Graph) IOPaths() []Edge {
	return g.edgesOfKind(ArcIOPath)
}

func (g *Graph) edgesOfKind(kind ArcKind) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// arcInstance returns the instance owning e, or "" when its pins differ.
func (g *Graph) arcInstance(e Edge) string {
	from, _ := SplitInstancePin(string(e.From), g.hierSep)
	to, _ := SplitInstancePin(string(e.To), g.hierSep)
	if from != to {
		return ""
	}
	return from
}

// Instances returns the cell instances owning at least one arc, sorted.
func (g *Graph) Instances() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range g.edges {
		inst := g.arcInstance(e)
		if inst == "" {
			continue
		}
		if _, ok := seen[inst]; !ok {
			seen[inst] = struct{}{}
			out = append(out, inst)
		}
	}
	sort.Strings(out)
	return out
}

// InstanceArcs returns the arcs of instance in insertion order.
func (g *Graph) InstanceArcs(instance string) ([]Edge, error) {
	var out []Edge
	for _, e := range g.edges {
		if instance != "" && g.arcInstance(e) == instance {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, UnknownInstanceError("InstanceArcs", instance)
	}
	return out, nil
}

// InstanceIOPins returns the input and output pin names of the IOPATH arcs
// of instance, paired by index and in insertion order. An unknown instance
// yields two empty lists.
func (g *Graph) InstanceIOPins(instance string) (inputs, outputs []string) {
	arcs, err := g.InstanceArcs(instance)
	if err != nil {
		return nil, nil
	}
	for _, e := range arcs {
		if e.Kind != ArcIOPath {
			continue
		}
		_, in := SplitInstancePin(string(e.From), g.hierSep)
		_, out := SplitInstancePin(string(e.To), g.hierSep)
		inputs = append(inputs, in)
		outputs = append(outputs, out)
	}
	return inputs, outputs
}

// FindInstanceArc returns the first arc of instance with the given kind
// running from pin input to pin output. ok is false when none matches.
func (g *Graph) FindInstanceArc(instance string, kind ArcKind, input, output string) (e Edge, ok bool, err error) {
	arcs, err := g.InstanceArcs(instance)
	if err != nil {
		return Edge{}, false, err
	}
	for _, a := range arcs {
		if a.Kind != kind {
			continue
		}
		_, in := SplitInstancePin(string(a.From), g.hierSep)
		_, out := SplitInstancePin(string(a.To), g.hierSep)
		if in == input && out == output {
			return a, true, nil
		}
	}
	return Edge{}, false, nil
}
