package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vito/formal/pkg/ioctx"
	"github.com/vito/formal/pkg/syntax"
)

func fmtCmd() *cobra.Command {
	var (
		write bool
		list  bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [flags] path...",
		Short: "Reprint definition files in canonical form",
		Long: `Reprint definition files with one definition per line, in the form
produced by the printer.

By default, fmt prints the formatted source to stdout.
Use -w to write the result back to the source file.
Use -l to list files that would be changed.
Comments are not preserved.`,
		Example: `  # Format a file and print to stdout
  formal fmt prelude.fm

  # Format all .fm files in a directory in place
  formal fmt -w ./lib`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, write, list)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write result to source file instead of stdout")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List files that would be formatted")

	return cmd
}

func runFmt(cmd *cobra.Command, paths []string, write, list bool) error {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrapf(err, "accessing %s", path)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.fm"))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}

	stdout := ioctx.StdoutFromContext(cmd.Context())
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		formatted, err := formatSource(file, source)
		if err != nil {
			return err
		}
		changed := string(source) != formatted

		switch {
		case write:
			if changed {
				if err := os.WriteFile(file, []byte(formatted), 0o644); err != nil {
					return err
				}
				if list {
					fmt.Fprintln(stdout, file)
				}
			}
		case list:
			if changed {
				fmt.Fprintln(stdout, file)
			}
		default:
			fmt.Fprint(stdout, formatted)
		}
	}
	return nil
}

// formatSource reprints every definition in src.
func formatSource(filename string, src []byte) (string, error) {
	defs, err := syntax.ParseFile(filename, src)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, def := range defs {
		sb.WriteString(def.Name)
		if def.Type != nil {
			sb.WriteString(" : ")
			sb.WriteString(def.Type.String())
		}
		sb.WriteString(" = ")
		sb.WriteString(def.Term.String())
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
