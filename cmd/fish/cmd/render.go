package cmd

import (
	"fmt"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/go-drift/fish/pkg/config"
	"github.com/go-drift/fish/pkg/decl"
	"github.com/go-drift/fish/pkg/flow"
	"github.com/go-drift/fish/pkg/view"
)

// RenderOptions holds the options for the render command.
type RenderOptions struct {
	Format      string
	Constraints bool
	Stats       bool
}

func NewRenderCommand(cli *CLI) *cobra.Command {
	opts := RenderOptions{Format: "tree"}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Compile a document and print the resulting widget tree",
		Long: `Render loads a YAML or HCL document, builds it, compiles it into a
root view with the configured middleware, and prints the tree.

With --format yaml the normalized document is printed instead, which
converts HCL documents to YAML.`,
		Example: `  fish render screens/inbox.hcl
  fish render inbox.yaml --var title=Archive --constraints
  fish render inbox.hcl --format yaml`,
		Args: ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.render(args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "Output format. One of: (tree | yaml)")
	cmd.Flags().BoolVar(&opts.Constraints, "constraints", false, "List the active constraints after the tree")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Print per-kind widget counts from the compile metrics")
	return cmd
}

func (c *CLI) render(path string, opts RenderOptions) error {
	doc, err := decl.Load(path, c.vars)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "yaml":
		data, err := doc.EncodeYAML()
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		_, err = c.Out.Write(data)
		return err
	case "tree":
	default:
		return fmt.Errorf("unknown format %q (use tree or yaml)", opts.Format)
	}

	spec, refs, err := decl.Build(doc)
	if err != nil {
		return err
	}

	cfg := *c.cfg
	if opts.Stats && !slices.Contains(cfg.Middleware, config.MiddlewareMetrics) {
		cfg.Middleware = append(slices.Clone(cfg.Middleware), config.MiddlewareMetrics)
	}
	registry := prometheus.NewRegistry()
	state, err := cfg.NewState(c.logger, registry)
	if err != nil {
		return err
	}

	root := view.NewView()
	defer root.Dispose()
	flow.Compile(state, root, spec)
	runtime.KeepAlive(refs)

	fmt.Fprint(c.Out, c.styles.tree(view.Dump(root)))
	if opts.Constraints {
		c.printConstraints(root)
	}
	if opts.Stats {
		return c.printStats(registry)
	}
	return nil
}

func (c *CLI) printConstraints(root view.Widget) {
	var lines []string
	view.Walk(root, func(w view.Widget) bool {
		if b, ok := w.(interface{ ViewBase() *view.Base }); ok {
			for _, constraint := range b.ViewBase().Constraints() {
				lines = append(lines, constraint.String())
			}
		}
		return true
	})
	fmt.Fprintf(c.Out, "\n%s\n", c.styles.dim(fmt.Sprintf("constraints (%d):", len(lines))))
	for _, line := range lines {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

const attachedMetric = "fish_flow_widgets_attached_total"

func (c *CLI) printStats(registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != attachedMetric {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "type" {
					counts[label.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}
	types := make([]string, 0, len(counts))
	total := 0.0
	for t, n := range counts {
		types = append(types, t)
		total += n
	}
	sort.Strings(types)

	fmt.Fprintf(c.Out, "\n%s\n", c.styles.dim(fmt.Sprintf("attached %g widgets:", total)))
	for _, t := range types {
		fmt.Fprintf(c.Out, "  %-24s %g\n", strings.TrimPrefix(t, "*view."), counts[t])
	}
	return nil
}
