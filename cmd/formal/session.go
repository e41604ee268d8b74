package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vito/formal/pkg/book"
	"github.com/vito/formal/pkg/ioctx"
	"github.com/vito/formal/pkg/kernel"
	"github.com/vito/formal/pkg/project"
	"github.com/vito/formal/pkg/term"
)

// session is everything a command needs once flags and formal.toml have
// been resolved.
type session struct {
	cfg    *Config
	ctx    context.Context
	logger *slog.Logger
	book   *book.Book
	kernel *kernel.Kernel
	out    *output
}

// open resolves the configuration and loads definitions. Files are loaded
// when given; otherwise the project's includes are.
func (cfg *Config) open(cmd *cobra.Command, files []string) (*session, error) {
	ctx := cmd.Context()

	configPath, proj, err := cfg.findProject()
	if err != nil {
		return nil, err
	}
	if proj != nil {
		cfg.merge(cmd, proj)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(ioctx.StderrFromContext(ctx), &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	ctx = ioctx.LoggerToContext(ctx, logger)

	if configPath != "" {
		logger.DebugContext(ctx, "loaded project", "path", configPath)
	}

	b := book.New()
	files = append(append([]string{}, cfg.Files...), files...)
	switch {
	case len(files) > 0:
		for _, file := range files {
			if err := b.LoadFile(file); err != nil {
				return nil, err
			}
		}
	case proj != nil:
		if err := b.LoadGlobs(filepath.Dir(configPath), proj.Include); err != nil {
			return nil, errors.Wrapf(err, "loading %s", configPath)
		}
	}
	logger.DebugContext(ctx, "loaded definitions", "count", b.Len())

	return &session{
		cfg:    cfg,
		ctx:    ctx,
		logger: logger,
		book:   b,
		kernel: kernel.New(b, kernel.WithFuel(cfg.Fuel), kernel.WithLogger(logger)),
		out:    newOutput(ioctx.StdoutFromContext(ctx), cfg.NoColor),
	}, nil
}

func (cfg *Config) findProject() (string, *project.Config, error) {
	if cfg.Project != "" {
		proj, err := project.Load(cfg.Project)
		if err != nil {
			return "", nil, err
		}
		return cfg.Project, proj, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	return project.Find(cwd)
}

// merge fills in settings from formal.toml that were not given as flags.
func (cfg *Config) merge(cmd *cobra.Command, proj *project.Config) {
	flags := cmd.Flags()
	if !flags.Changed("debug") {
		cfg.Debug = proj.Debug
	}
	if !flags.Changed("fuel") {
		cfg.Fuel = proj.Fuel
	}
	if !flags.Changed("jobs") {
		cfg.Jobs = proj.Jobs
	}
	if !flags.Changed("erase") {
		cfg.Erase = proj.Erase
	}
}

// dump writes the structure of t to stderr when debugging.
func (s *session) dump(label string, t term.Term) {
	if !s.cfg.Debug {
		return
	}
	w := ioctx.StderrFromContext(s.ctx)
	_, _ = pretty.Fprintf(w, "%s: %# v\n", label, t)
}

// expand resolves references in t against the loaded definitions.
func (s *session) expand(t term.Term) (term.Term, error) {
	expanded, err := s.book.Expand(t)
	if err != nil {
		return nil, err
	}
	s.dump("expanded", expanded)
	return expanded, nil
}

// stdrwc is stdin and stdout as one stream.
type stdrwc struct{}

var _ io.ReadWriteCloser = stdrwc{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
