package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func checkCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] [file...]",
		Short: "Type check definitions",
		Long: `Type check every definition in the given files, or in the files
included by formal.toml when no files are given.

An annotated definition must check against its annotation, which must be
a type. An unannotated definition must have an inferable type.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.open(cmd, args)
			if err != nil {
				return err
			}
			return runCheck(s)
		},
	}
}

func runCheck(s *session) error {
	if s.book.Len() == 0 {
		return errors.New("nothing to check: pass definition files or create formal.toml")
	}

	results, err := s.book.CheckAll(s.ctx, s.kernel, s.cfg.Jobs)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		s.out.Result(r)
		if r.Err != nil {
			failed++
			s.logger.DebugContext(s.ctx, "definition failed", "name", r.Name, "error", r.Err)
		}
	}
	s.out.Println(dimStyle.Render(fmt.Sprintf("checked %d definitions", len(results))))

	if failed > 0 {
		return errors.Errorf("%d of %d definitions failed", failed, len(results))
	}
	return nil
}
