package main

import (
	"github.com/spf13/cobra"

	"github.com/vito/formal/pkg/kernel"
	"github.com/vito/formal/pkg/rpc"
)

func serveCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve JSON-RPC 2.0 on stdio",
		Long: `Serve newline-delimited JSON-RPC 2.0 requests on stdin, answering on
stdout. Loaded definitions are available to every request.

Methods:
  define {name, type?, source}  check and add a definition
  reduce {source, erase?}       normal form of a term
  infer  {source}               type of a term
  check  {source, type}         check a term against a type
  names  {}                     defined names in order`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.open(cmd, nil)
			if err != nil {
				return err
			}
			svc := rpc.NewService(s.book, s.logger, kernel.WithFuel(cfg.Fuel))
			s.logger.InfoContext(s.ctx, "serving JSON-RPC on stdio", "definitions", s.book.Len())
			return svc.Serve(s.ctx, stdrwc{}, stdrwc{})
		},
	}
}
