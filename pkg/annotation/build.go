package annotation

import (
	"fmt"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/metrics"
	"github.com/dd0wney/cluso-timing/pkg/timing"
	"github.com/dd0wney/cluso-timing/pkg/validation"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// HierSep overrides the source's divider. Empty uses the divider the
	// source declares, then timing.DefaultHierSep.
	HierSep string

	// ImplicitNodes declares unseen arc endpoints on the fly, as in SDF
	// where every arc endpoint is a pin. Without it an arc to an undeclared
	// pin fails with an unknown node error.
	ImplicitNodes bool

	// DelaySelector reduces delay_paths in YAML documents that do not set
	// their own selector. Only BuildFile consults it.
	DelaySelector timing.DelaySelector

	Logger  logging.Logger
	Metrics *metrics.Registry
}

type divided interface {
	Divider() string
}

// Build replays src into a new frozen graph. On any failure no graph is
// returned.
func Build(src Source, opts BuildOptions) (*timing.Graph, error) {
	logger := logging.OrNop(opts.Logger).With(logging.Component("annotation"))
	timer := logging.StartTimer(logger, "graph built")

	decls, err := src.Declarations()
	if err != nil {
		err = fmt.Errorf("read declarations: %w", err)
		timer.EndError(err)
		return nil, err
	}

	var divider string
	if d, ok := src.(divided); ok {
		divider = d.Divider()
	}
	sep := validation.DefaultOr(opts.HierSep, divider)
	g := timing.NewGraph(sep)

	for i, d := range decls {
		err := apply(g, d, opts.ImplicitNodes)
		if opts.Metrics != nil {
			opts.Metrics.RecordDeclaration(d.Kind.String(), metrics.Status(err))
		}
		if err != nil {
			err = fmt.Errorf("declaration %d (%s): %w", i, d, err)
			timer.EndError(err)
			return nil, err
		}
	}
	g.Freeze()

	if opts.Metrics != nil {
		opts.Metrics.RecordBuild(g.NodeCount(), g.EdgeCount(), timer.Elapsed())
	}
	timer.End(
		logging.Int("nodes", g.NodeCount()),
		logging.Int("arcs", g.EdgeCount()),
		logging.String("hier_sep", g.HierSep()),
	)
	return g, nil
}

func apply(g *timing.Graph, d Declaration, implicit bool) error {
	switch d.Kind {
	case DeclNode:
		return g.AddNode(d.Node)
	case DeclArc:
		if implicit {
			if err := g.AddNode(d.From); err != nil {
				return err
			}
			if err := g.AddNode(d.To); err != nil {
				return err
			}
		}
		return g.AddArc(timing.Edge{
			From:  d.From,
			To:    d.To,
			Delay: d.Delay,
			Kind:  d.ArcKind,
			Cell:  d.Cell,
		})
	default:
		return timing.InvalidArgumentError("Build", "kind", d.Kind.String())
	}
}
