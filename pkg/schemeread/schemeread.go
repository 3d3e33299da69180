// Package schemeread is the textual reader spec.md 1 treats as an external
// collaborator: it turns Scheme source text into regmachine.Value forms
// the explicit-control evaluator can run. It is built on
// github.com/alecthomas/participle/v2, the grammar library named in the
// teacher's own go.mod but not exercised by the retrieved coverbee
// snapshot -- this is its concrete use in this repository.
//
// participle.Parser only parses a complete, self-contained string, so
// Reader first demarcates one balanced top-level datum from the input
// stream by hand (tracking parenthesis depth and string literals) before
// handing that substring to the grammar parser. This mirrors the two-layer
// approach cilium-coverbee's own pkg/verifierlog uses to parse eBPF
// verifier logs: a cheap bufio.Scanner pass to find statement boundaries,
// followed by a deeper per-statement parse.
package schemeread

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sicplab/regmachine"
)

// sexpr is the participle grammar for one Scheme datum: a quoted form, a
// parenthesised list (proper or dotted), or an atom.
type sexpr struct {
	Quote *sexpr   `parser:"( \"'\" @@"`
	List  *sexprs  `parser:"| \"(\" @@ \")\""`
	Atom  *atomLit `parser:"| @@ )"`
}

type sexprs struct {
	Items []*sexpr `parser:"@@*"`
	Dot   *sexpr   `parser:"( \".\" @@ )?"`
}

type atomLit struct {
	Float  *float64 `parser:"(  @Float"`
	Int    *int64   `parser:"| @Int"`
	Str    *string  `parser:"| @String"`
	Symbol *string  `parser:"| @Ident )"`
}

var schemeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Float", Pattern: `[-+]?[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `[-+]?[0-9]+`},
	{Name: "String", Pattern: `"(\\.|[^"])*"`},
	{Name: "Punct", Pattern: `[().']`},
	{Name: "Ident", Pattern: `[a-zA-Z#!$%&*/:<=>?^_~+\-][a-zA-Z0-9!$%&*/:<=>?^_~+\-.]*`},
})

var sexprParser = participle.MustBuild(
	&sexpr{},
	participle.Lexer(schemeLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Reader reads successive top-level Scheme forms from r, materializing
// pairs into heap.
type Reader struct {
	br   *bufio.Reader
	heap *regmachine.Heap
}

// New returns a Reader over r, building pairs in heap.
func New(r io.Reader, heap *regmachine.Heap) *Reader {
	return &Reader{br: bufio.NewReader(r), heap: heap}
}

// ReadForm reads and returns the next top-level Scheme datum as a
// regmachine.Value. It returns io.EOF when the input is exhausted with
// nothing but whitespace/comments remaining, and a *regmachine.ReadError
// -- non-fatal per spec.md 7 -- for a malformed form.
func (rd *Reader) ReadForm() (regmachine.Value, error) {
	chunk, err := rd.nextChunk()
	if err != nil {
		return regmachine.Value{}, err
	}

	var parsed sexpr
	if err := sexprParser.ParseString("", chunk, &parsed); err != nil {
		return regmachine.Value{}, &regmachine.ReadError{Msg: err.Error()}
	}
	return toValue(rd.heap, &parsed), nil
}

// nextChunk scans past whitespace/comments, then collects exactly one
// balanced datum (an atom, a quoted form, or a fully parenthesised list,
// respecting string-literal contents) as a string.
func (rd *Reader) nextChunk() (string, error) {
	if err := rd.skipAtmosphere(); err != nil {
		return "", err
	}

	var sb strings.Builder
	depth := 0
	sawQuote := false
	for {
		b, err := rd.br.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		switch {
		case b == '\'' && sb.Len() == 0:
			sb.WriteByte(b)
			sawQuote = true
			continue
		case b == '(':
			depth++
			sb.WriteByte(b)
		case b == ')':
			depth--
			sb.WriteByte(b)
			if depth == 0 {
				return sb.String(), nil
			}
		case b == '"':
			sb.WriteByte(b)
			if err := rd.copyStringLiteral(&sb); err != nil {
				return "", err
			}
			if depth == 0 {
				return sb.String(), nil
			}
		case isAtmosphere(b):
			if depth == 0 {
				if sb.Len() == 0 {
					continue
				}
				return sb.String(), nil
			}
			sb.WriteByte(b)
		default:
			sb.WriteByte(b)
			if depth == 0 && !sawQuote {
				if peekIsBoundary(rd.br) {
					return sb.String(), nil
				}
			}
		}
	}
}

func (rd *Reader) copyStringLiteral(sb *strings.Builder) error {
	escaped := false
	for {
		b, err := rd.br.ReadByte()
		if err != nil {
			return &regmachine.ReadError{Msg: "unterminated string literal"}
		}
		sb.WriteByte(b)
		if escaped {
			escaped = false
			continue
		}
		if b == '\\' {
			escaped = true
			continue
		}
		if b == '"' {
			return nil
		}
	}
}

func peekIsBoundary(br *bufio.Reader) bool {
	b, err := br.Peek(1)
	if err != nil {
		return true
	}
	return isAtmosphere(b[0]) || b[0] == '(' || b[0] == ')' || b[0] == '"'
}

func isAtmosphere(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (rd *Reader) skipAtmosphere() error {
	for {
		b, err := rd.br.ReadByte()
		if err != nil {
			return err
		}
		if isAtmosphere(b) {
			continue
		}
		if b == ';' {
			for {
				c, err := rd.br.ReadByte()
				if err != nil {
					return err
				}
				if c == '\n' {
					break
				}
			}
			continue
		}
		return rd.br.UnreadByte()
	}
}

// toValue converts the participle grammar tree into a regmachine.Value,
// allocating pairs in heap.
func toValue(heap *regmachine.Heap, s *sexpr) regmachine.Value {
	switch {
	case s.Quote != nil:
		inner := toValue(heap, s.Quote)
		return heap.SliceToList([]regmachine.Value{regmachine.Sym("quote"), inner})
	case s.List != nil:
		elems := make([]regmachine.Value, 0, len(s.List.Items))
		for _, it := range s.List.Items {
			elems = append(elems, toValue(heap, it))
		}
		tail := regmachine.Empty
		if s.List.Dot != nil {
			tail = toValue(heap, s.List.Dot)
		}
		out := tail
		for i := len(elems) - 1; i >= 0; i-- {
			out = heap.Cons(elems[i], out)
		}
		return out
	case s.Atom != nil:
		return atomToValue(s.Atom)
	default:
		return regmachine.Empty
	}
}

func atomToValue(a *atomLit) regmachine.Value {
	switch {
	case a.Float != nil:
		return regmachine.Flt(*a.Float)
	case a.Int != nil:
		return regmachine.Int(*a.Int)
	case a.Str != nil:
		unquoted, err := strconv.Unquote(*a.Str)
		if err != nil {
			unquoted = strings.Trim(*a.Str, `"`)
		}
		return regmachine.Str(unquoted)
	case a.Symbol != nil:
		switch *a.Symbol {
		case "#t", "true":
			return regmachine.Bl(true)
		case "#f", "false":
			return regmachine.Bl(false)
		default:
			return regmachine.Sym(*a.Symbol)
		}
	default:
		return regmachine.Empty
	}
}
