package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/fish/pkg/decl"
)

func NewVersionCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cli.Out, "fish version %s (built %s)\n", Version, BuildTime)
			fmt.Fprintf(cli.Out, "document version %s\n", decl.CurrentVersion)
		},
	}
}
