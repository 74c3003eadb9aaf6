package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/fish/pkg/decl"
)

var commonProps = []string{"background", "hidden", "tag"}

func NewKindsCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the widget kinds documents can use",
		Args:  ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			cli.kinds(decl.DefaultRegistry())
		},
	}
}

func (c *CLI) kinds(r *decl.Registry) {
	for _, name := range r.Kinds() {
		k, _ := r.Lookup(name)
		props := slices.Sorted(maps.Keys(k.Props))
		fmt.Fprintf(c.Out, "%-8s %s\n", c.styles.kind(name), strings.Join(props, ", "))
	}
	fmt.Fprintf(c.Out, "\n%s %s\n", c.styles.dim("all kinds:"), strings.Join(commonProps, ", "))
}
