package syntax

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokName
	tokFree
	tokSymbol
)

type token struct {
	kind tokenKind
	text string
	pos  Pos
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokFree:
		return "#" + t.text
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

type lexer struct {
	src    []rune
	source string
	off    int
	pos    Pos
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '\''
}

// tokenize splits src into tokens, ending with a single tokEOF.
func tokenize(filename, src string) ([]token, error) {
	l := &lexer{
		src:    []rune(src),
		source: src,
		pos:    Pos{Filename: filename, Line: 1, Column: 1},
	}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peek(ahead int) rune {
	if l.off+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.off+ahead]
}

func (l *lexer) advance() rune {
	r := l.src[l.off]
	l.off++
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	return r
}

func (l *lexer) skipSpace() {
	for l.off < len(l.src) {
		switch r := l.peek(0); {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peek(1) == '/':
			for l.off < len(l.src) && l.peek(0) != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	r := l.peek(0)
	switch {
	case isNameStart(r):
		var sb strings.Builder
		for l.off < len(l.src) && isNamePart(l.peek(0)) {
			sb.WriteRune(l.advance())
		}
		return token{kind: tokName, text: sb.String(), pos: start}, nil
	case r == '#':
		l.advance()
		var sb strings.Builder
		for l.off < len(l.src) && unicode.IsDigit(l.peek(0)) {
			sb.WriteRune(l.advance())
		}
		if sb.Len() == 0 {
			return token{}, &Error{Pos: start, Msg: "expected digits after #", Source: l.source}
		}
		return token{kind: tokFree, text: sb.String(), pos: start}, nil
	case r == '=' && l.peek(1) == '>':
		l.advance()
		l.advance()
		return token{kind: tokSymbol, text: "=>", pos: start}, nil
	case strings.ContainsRune("{}[]()<>:;=.-", r):
		l.advance()
		return token{kind: tokSymbol, text: string(r), pos: start}, nil
	default:
		return token{}, &Error{Pos: start, Msg: fmt.Sprintf("unexpected character %q", r), Source: l.source}
	}
}
