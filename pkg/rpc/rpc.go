// Package rpc serves a book of definitions over JSON-RPC 2.0.
//
// Every request carries term source text in the surface syntax. Names that
// are not bound inside the term refer to the service's definitions.
package rpc

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"

	"github.com/vito/formal/pkg/book"
	"github.com/vito/formal/pkg/kernel"
	"github.com/vito/formal/pkg/syntax"
	"github.com/vito/formal/pkg/term"
)

// Service answers normalization and typing requests against a book that
// clients may extend with new definitions.
type Service struct {
	mu     sync.RWMutex
	book   *book.Book
	opts   []kernel.Option
	logger *slog.Logger
}

// NewService wraps b. The kernel options apply to every request.
func NewService(b *book.Book, logger *slog.Logger, opts ...kernel.Option) *Service {
	if b == nil {
		b = book.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		book:   b,
		opts:   append(opts, kernel.WithLogger(logger)),
		logger: logger,
	}
}

// Methods returns the method table served by Serve.
func (s *Service) Methods() handler.Map {
	return handler.Map{
		"define": s.handleDefine,
		"reduce": s.handleReduce,
		"infer":  s.handleInfer,
		"check":  s.handleCheck,
		"names":  s.handleNames,
	}
}

// Serve handles newline-delimited requests from r, writing responses to w,
// until the peer disconnects or ctx is done. When ctx is done r is closed
// too if it is an io.Closer.
func (s *Service) Serve(ctx context.Context, r io.Reader, w io.WriteCloser) error {
	srv := jrpc2.NewServer(s.Methods(), &jrpc2.ServerOptions{
		Logger: func(text string) {
			s.logger.Debug(text)
		},
	})
	srv.Start(channel.Line(r, w))

	stop := context.AfterFunc(ctx, func() {
		if c, ok := r.(io.Closer); ok {
			c.Close()
		}
		srv.Stop()
	})
	defer stop()

	err := srv.Wait()
	s.logger.InfoContext(ctx, "rpc server closed", "error", err)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// DefineParams adds a definition. Type is optional.
type DefineParams struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Source string `json:"source"`
}

// TermParams carries a single term.
type TermParams struct {
	Source string `json:"source"`
	Erase  bool   `json:"erase,omitempty"`
}

// CheckParams checks Source against Type.
type CheckParams struct {
	Source string `json:"source"`
	Type   string `json:"type"`
}

// DefineResult reports the type a new definition was checked at.
type DefineResult struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TermResult is a printed term.
type TermResult struct {
	Term string `json:"term"`
}

// TypeResult is a printed type.
type TypeResult struct {
	Type string `json:"type"`
}

func (s *Service) kernel() *kernel.Kernel {
	return kernel.New(s.book, s.opts...)
}

func (s *Service) parse(name, src string) (term.Term, error) {
	t, err := syntax.Parse(name, []byte(src))
	if err != nil {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "%s", err)
	}
	return t, nil
}

func (s *Service) handleDefine(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}
	var params DefineParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}
	if !term.IsName(params.Name) {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "invalid name %q", params.Name)
	}

	def := book.Definition{Name: params.Name}
	var err error
	if def.Term, err = s.parse(params.Name, params.Source); err != nil {
		return nil, err
	}
	if params.Type != "" {
		if def.Type, err = s.parse(params.Name, params.Type); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.book.Definition(def.Name); exists {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "%q is already defined", def.Name)
	}
	typ, err := s.book.CheckDefinition(ctx, s.kernel(), def)
	if err != nil {
		return nil, err
	}
	if err := s.book.Define(def); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "defined", "name", def.Name, "type", typ)
	return DefineResult{Name: def.Name, Type: typ.String()}, nil
}

func (s *Service) handleReduce(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}
	var params TermParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}
	t, err := s.parse("", params.Source)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	nf, err := s.kernel().Normalize(ctx, t)
	if err != nil {
		return nil, err
	}
	if params.Erase {
		nf = term.Erase(nf)
	}
	return TermResult{Term: nf.String()}, nil
}

func (s *Service) handleInfer(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}
	var params TermParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}
	t, err := s.parse("", params.Source)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	typ, err := s.book.CheckDefinition(ctx, s.kernel(), book.Definition{Name: "it", Term: t})
	if err != nil {
		return nil, err
	}
	return TypeResult{Type: typ.String()}, nil
}

func (s *Service) handleCheck(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}
	var params CheckParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}
	t, err := s.parse("", params.Source)
	if err != nil {
		return nil, err
	}
	typ, err := s.parse("", params.Type)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	checked, err := s.book.CheckDefinition(ctx, s.kernel(), book.Definition{Name: "it", Type: typ, Term: t})
	if err != nil {
		return nil, err
	}
	return TypeResult{Type: checked.String()}, nil
}

func (s *Service) handleNames(ctx context.Context, req *jrpc2.Request) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Names(), nil
}
