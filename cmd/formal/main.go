package main

import (
	"context"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/vito/formal/pkg/ioctx"
)

// Config holds the application configuration. Flags override the values
// found in formal.toml.
type Config struct {
	Debug   bool
	NoColor bool
	Fuel    int
	Jobs    int
	Erase   bool
	Project string
	Files   []string
}

func main() {
	var cfg Config

	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, newRootCmd(&cfg),
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			out := renderError(err)
			if cfg.NoColor {
				out = ansi.Strip(out)
			}
			_, _ = lipgloss.Fprintln(w, out)
		}),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "formal",
		Short: "Dependently typed lambda calculus checker",
		Long: `Formal normalizes and type checks terms of a small dependently typed
lambda calculus with inductive types, dependent pairs and a duplication
modality.

Definitions are read from the files given with -f, or from the files
included by the nearest formal.toml.`,
		Example: `  # Check every definition in the project
  formal check

  # Check specific files
  formal check prelude.fm nat.fm

  # Normalize a term against a file of definitions
  formal norm -f prelude.fm '(not true)'

  # Infer the type of a term
  formal type -f prelude.fm 'not'

  # Serve JSON-RPC on stdio
  formal serve`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable styled output")
	flags.IntVar(&cfg.Fuel, "fuel", 0, "Maximum reduction steps per operation (0 for unbounded)")
	flags.IntVarP(&cfg.Jobs, "jobs", "j", 0, "Definitions checked in parallel (0 for one per CPU)")
	flags.StringVar(&cfg.Project, "project", "", "Path to formal.toml (searched upward from the working directory if not specified)")
	flags.StringArrayVarP(&cfg.Files, "file", "f", nil, "Definition file to load (repeatable)")

	rootCmd.AddCommand(
		checkCmd(cfg),
		normCmd(cfg),
		typeCmd(cfg),
		fmtCmd(),
		serveCmd(cfg),
	)

	return rootCmd
}
