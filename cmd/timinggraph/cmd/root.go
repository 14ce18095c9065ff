package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-timing/pkg/algorithms"
	"github.com/dd0wney/cluso-timing/pkg/annotation"
	"github.com/dd0wney/cluso-timing/pkg/config"
	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/metrics"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

var (
	// Global flags
	configPath string
	graphPath  string
	logLevel   string

	// Resolved in setup
	cfg      config.Config
	logger   logging.Logger = logging.NewNopLogger()
	registry *metrics.Registry
)

var rootCmd = &cobra.Command{
	Use:   "timinggraph",
	Short: "Timing graph queries over delay annotations",
	Long: `Build a timing graph from a delay annotation and query it: earliest
common convergence points, first-fanout chains, minimum-delay paths and
port listings.

Annotations are YAML declaration documents (.yaml, .yml) or the line-based
text format (anything else).

Examples:
  timinggraph --graph tile.yaml stats                         # Graph size and ports
  timinggraph --graph tile.yaml common -s A/O -s B/O          # Earliest common nodes
  timinggraph --graph tile.txt fanout LUT4AB/J2END --hops 3   # Follow first fanout
  timinggraph --graph tile.yaml batch queries.yaml            # Many queries at once
  timinggraph modules ./rtl 'switch_matrix$'                  # Find HDL modules`,
	Version:            "0.1.0",
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: flushMetrics,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML config file")
	rootCmd.PersistentFlags().StringVarP(&graphPath, "graph", "g", "",
		"annotation file to build the graph from")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error); overrides config and environment")
}

// setup resolves the configuration and the shared logger and registry.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = strings.ToLower(logLevel)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}

	cfg = c
	logger = logging.NewJSONLogger(cmd.ErrOrStderr(), cfg.Level()).
		With(logging.String("command", cmd.Name()))
	registry = metrics.NewRegistry()
	return nil
}

func flushMetrics(cmd *cobra.Command, args []string) error {
	if cfg.MetricsTextfile == "" || registry == nil {
		return nil
	}
	return registry.WriteTextfile(cfg.MetricsTextfile)
}

// loadGraph builds the graph named by --graph.
func loadGraph() (*timing.Graph, error) {
	if graphPath == "" {
		return nil, errors.New("--graph is required for this command")
	}
	return annotation.BuildFile(graphPath, annotation.BuildOptions{
		HierSep:       cfg.HierSep,
		ImplicitNodes: cfg.ImplicitNodes,
		DelaySelector: cfg.Selector(),
		Logger:        logger,
		Metrics:       registry,
	})
}

func newEngine(g *timing.Graph) *algorithms.PathQueryEngine {
	return algorithms.NewPathQueryEngine(g,
		algorithms.WithLogger(logger),
		algorithms.WithMetrics(registry),
	)
}

func nodeIDs(names []string) []timing.NodeID {
	ids := make([]timing.NodeID, len(names))
	for i, n := range names {
		ids[i] = timing.NodeID(n)
	}
	return ids
}
