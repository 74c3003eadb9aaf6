// Package cmd implements the fish CLI commands.
//
// The root command resolves fish.yaml from the project directory, installs
// the process logger, and dispatches to render, validate, kinds and version.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/go-drift/fish/pkg/config"
	"github.com/go-drift/fish/pkg/errors"
	"github.com/go-drift/fish/pkg/log"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// CLI is the state shared by all commands. Flags populate it; the root
// command's pre-run resolves the configuration and logger.
type CLI struct {
	Out io.Writer
	Err io.Writer

	configDir string
	vars      map[string]string
	debug     bool
	noColor   bool

	cfg    *config.Resolved
	logger logr.Logger
	styles styles
}

// NewCLI returns a CLI writing to out and errOut.
func NewCLI(out, errOut io.Writer) *CLI {
	return &CLI{Out: out, Err: errOut, logger: logr.Discard(), styles: newStyles(false)}
}

// NewRootCommand builds the command tree around cli.
func NewRootCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fish",
		Short: "Render and validate declarative widget trees",
		Long: `fish builds widget trees from YAML or HCL documents, compiles them
with the middleware configured in fish.yaml, and prints the result.

Use "fish <command> --help" for more information about a command.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.setup()
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(cli.Out)
	cmd.SetErr(cli.Err)
	cmd.SetVersionTemplate("fish version {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.configDir, "config", "C", ".", "Directory to search upwards for fish.yaml")
	flags.StringToStringVar(&cli.vars, "var", nil, "Override a document variable (name=value, repeatable)")
	flags.BoolVar(&cli.debug, "debug", false, "Set log level to debug")
	flags.BoolVar(&cli.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		NewRenderCommand(cli),
		NewValidateCommand(cli),
		NewKindsCommand(cli),
		NewVersionCommand(cli),
	)
	return cmd
}

func (c *CLI) setup() error {
	c.styles = newStyles(colorEnabled(c.Out, c.noColor))

	root, err := config.FindProjectRoot(c.configDir)
	if err != nil {
		return fmt.Errorf("failed to locate project: %w", err)
	}
	cfg, err := config.Resolve(root)
	if err != nil {
		return err
	}
	opts := cfg.Log
	if c.debug {
		opts.Level = "debug"
	}
	logger, err := log.New(opts)
	if err != nil {
		return err
	}
	log.SetLogger(logger)
	c.cfg = cfg
	c.logger = logger.WithName("fish")
	c.logger.V(1).Info("resolved configuration", "root", cfg.Root, "app", cfg.AppName, "middleware", cfg.Middleware)
	return nil
}

// Execute runs the CLI against os.Args and returns the process exit code.
func Execute() (code int) {
	cli := NewCLI(os.Stdout, os.Stderr)
	defer errors.RecoverAs("cmd.fish", func(r any) {
		fmt.Fprintf(cli.Err, "%s internal error: %v\n", cli.styles.fail("Error:"), r)
		code = 2
	})

	if err := NewRootCommand(cli).Execute(); err != nil {
		fmt.Fprintf(cli.Err, "%s %v\n", cli.styles.fail("Error:"), err)
		return 1
	}
	return 0
}

// ExactArgs returns an error if there is not the exact number of args.
func ExactArgs(number int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == number {
			return nil
		}
		return fmt.Errorf("expected %d arguments, got %d", number, len(args))
	}
}
