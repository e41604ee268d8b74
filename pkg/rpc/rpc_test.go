package rpc_test

import (
	"bufio"
	"context"
	"io"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/formal/pkg/book"
	"github.com/vito/formal/pkg/kernel"
	"github.com/vito/formal/pkg/rpc"
	"github.com/vito/formal/pkg/term"
)

const prelude = `
Bool : Type = data Bool : Type { tru : Bool; fls : Bool }
true : Bool = .tru Bool
false : Bool = .fls Bool
not : {b : Bool} Bool = [b] case b of Bool as c return Bool { tru => false; fls => true }
`

const boolType = "data Bool : Type { tru : Bool; fls : Bool }"

func newBook(t *testing.T) *book.Book {
	t.Helper()
	b := book.New()
	require.NoError(t, b.LoadSource("prelude.fm", []byte(prelude)))
	return b
}

func connect(t *testing.T, svc *rpc.Service) *jrpc2.Client {
	t.Helper()
	cch, sch := channel.Direct()
	srv := jrpc2.NewServer(svc.Methods(), nil).Start(sch)
	cli := jrpc2.NewClient(cch, nil)
	t.Cleanup(func() {
		cli.Close()
		srv.Stop()
	})
	return cli
}

func show(t *testing.T, b *book.Book, name string) string {
	t.Helper()
	expanded, err := b.Expand(term.Ref{Name: name})
	require.NoError(t, err)
	return expanded.String()
}

func TestReduce(t *testing.T) {
	ctx := context.Background()
	b := newBook(t)
	cli := connect(t, rpc.NewService(b, nil))

	var res rpc.TermResult
	require.NoError(t, cli.CallResult(ctx, "reduce", rpc.TermParams{Source: "(not (not false))"}, &res))
	assert.Equal(t, show(t, b, "false"), res.Term)

	require.NoError(t, cli.CallResult(ctx, "reduce", rpc.TermParams{Source: "[-A : Type] [x] x", Erase: true}, &res))
	assert.Equal(t, "[x] x", res.Term)
}

func TestInferAndCheck(t *testing.T) {
	ctx := context.Background()
	b := newBook(t)
	cli := connect(t, rpc.NewService(b, nil))

	var res rpc.TypeResult
	require.NoError(t, cli.CallResult(ctx, "infer", rpc.TermParams{Source: "(not true)"}, &res))
	assert.Equal(t, boolType, res.Type)

	require.NoError(t, cli.CallResult(ctx, "check", rpc.CheckParams{Source: "[x] x", Type: "{x : Bool} Bool"}, &res))
	assert.Equal(t, "{x : Bool} Bool", res.Type)

	err := cli.CallResult(ctx, "check", rpc.CheckParams{Source: "true", Type: "Type"}, &res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")

	err = cli.CallResult(ctx, "infer", rpc.TermParams{Source: "[x] x"}, &res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot infer unannotated lambda")
}

func TestDefine(t *testing.T) {
	ctx := context.Background()
	b := newBook(t)
	cli := connect(t, rpc.NewService(b, nil))

	var def rpc.DefineResult
	require.NoError(t, cli.CallResult(ctx, "define", rpc.DefineParams{
		Name:   "and",
		Type:   "{a : Bool} {b : Bool} Bool",
		Source: "[a] [b] case a of Bool as c return Bool { tru => b; fls => false }",
	}, &def))
	assert.Equal(t, "and", def.Name)
	assert.Equal(t, "{a : Bool} {b : Bool} Bool", def.Type)

	var names []string
	require.NoError(t, cli.CallResult(ctx, "names", nil, &names))
	assert.Equal(t, []string{"Bool", "true", "false", "not", "and"}, names)

	var res rpc.TermResult
	require.NoError(t, cli.CallResult(ctx, "reduce", rpc.TermParams{Source: "(and true (not false))"}, &res))
	assert.Equal(t, show(t, b, "true"), res.Term)

	t.Run("rejects ill-typed definitions", func(t *testing.T) {
		err := cli.CallResult(ctx, "define", rpc.DefineParams{Name: "bad", Type: "Bool", Source: "Type"}, &def)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type mismatch")
		_, ok := b.Definition("bad")
		assert.False(t, ok)
	})

	t.Run("rejects redefinition", func(t *testing.T) {
		err := cli.CallResult(ctx, "define", rpc.DefineParams{Name: "not", Source: "true"}, &def)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"not" is already defined`)
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		err := cli.CallResult(ctx, "define", rpc.DefineParams{Name: "case", Source: "true"}, &def)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid name")
	})
}

func TestParseErrors(t *testing.T) {
	ctx := context.Background()
	cli := connect(t, rpc.NewService(nil, nil))

	var res rpc.TermResult
	err := cli.CallResult(ctx, "reduce", rpc.TermParams{Source: "(x"}, &res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1:3")

	err = cli.CallResult(ctx, "reduce", nil, &res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing parameters")
}

func TestFuel(t *testing.T) {
	ctx := context.Background()
	cli := connect(t, rpc.NewService(newBook(t), nil, kernel.WithFuel(1)))

	var res rpc.TermResult
	err := cli.CallResult(ctx, "reduce", rpc.TermParams{Source: "(not (not false))"}, &res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), kernel.ErrOutOfFuel.Error())
}

func TestServe(t *testing.T) {
	ctx := context.Background()
	svc := rpc.NewService(newBook(t), nil)

	reqR, reqW := io.Pipe()
	resR, resW := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx, reqR, resW)
	}()

	_, err := io.WriteString(reqW, `{"jsonrpc":"2.0","id":1,"method":"infer","params":{"source":"(not true)"}}`+"\n")
	require.NoError(t, err)

	res, err := bufio.NewReader(resR).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, res, `"result":{"type":"`+boolType+`"}`)

	require.NoError(t, reqW.Close())
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after the client disconnected")
	}
}

func TestServeCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := rpc.NewService(nil, nil)

	reqR, _ := io.Pipe()
	_, resW := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx, reqR, resW)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}
