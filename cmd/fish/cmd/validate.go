package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/fish/pkg/decl"
)

func NewValidateCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that documents parse and build",
		Long: `Validate parses each document and builds it against the default kind
registry, evaluating every condition, repetition and expression prop.
It reports one line per file and fails if any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.validate(args)
		},
	}
}

func (c *CLI) validate(paths []string) error {
	failed := 0
	for _, path := range paths {
		err := c.validateFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(c.Out, "%s %v\n", c.styles.fail("FAIL"), err)
			continue
		}
		fmt.Fprintf(c.Out, "%s   %s\n", c.styles.ok("ok"), path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents invalid", failed, len(paths))
	}
	return nil
}

func (c *CLI) validateFile(path string) error {
	doc, err := decl.Load(path, c.vars)
	if err != nil {
		return err
	}
	if err := decl.Validate(doc); err != nil {
		return err
	}
	c.logger.V(1).Info("document valid", "file", path, "version", doc.Version)
	return nil
}
