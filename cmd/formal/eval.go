package main

import (
	"github.com/spf13/cobra"

	"github.com/vito/formal/pkg/syntax"
	"github.com/vito/formal/pkg/term"
)

func normCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "norm [flags] term",
		Short: "Print the normal form of a term",
		Example: `  formal norm -f prelude.fm '(not true)'
  formal norm --erase '[-A : Type] [x : A] x'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.open(cmd, nil)
			if err != nil {
				return err
			}
			return runNorm(s, args[0])
		},
	}
	cmd.Flags().BoolVarP(&cfg.Erase, "erase", "e", false, "Remove computationally irrelevant parts from the result")
	return cmd
}

func typeCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "type [flags] term",
		Short:   "Print the type of a term",
		Example: `  formal type -f prelude.fm '(not true)'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.open(cmd, nil)
			if err != nil {
				return err
			}
			return runType(s, args[0])
		},
	}
}

func (s *session) parse(src string) (term.Term, error) {
	t, err := syntax.Parse("<term>", []byte(src))
	if err != nil {
		return nil, err
	}
	s.dump("parsed", t)
	return t, nil
}

func runNorm(s *session, src string) error {
	t, err := s.parse(src)
	if err != nil {
		return err
	}
	nf, err := s.kernel.Normalize(s.ctx, t)
	if err != nil {
		return err
	}
	if s.cfg.Erase {
		nf = term.Erase(nf)
	}
	s.dump("normal", nf)
	s.out.Term(nf)
	return nil
}

func runType(s *session, src string) error {
	t, err := s.parse(src)
	if err != nil {
		return err
	}
	expanded, err := s.expand(t)
	if err != nil {
		return err
	}
	typ, err := s.kernel.Infer(s.ctx, expanded)
	if err != nil {
		return err
	}
	s.out.Println(typeStyle.Render(typ.String()))
	return nil
}
