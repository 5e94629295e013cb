package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/formula"
	"github.com/fexpr-lang/fexpr/variable"
)

// Model parses a .model document from r: one constraint per non-empty,
// non-"#"-comment line, using infix "&" (and), "|" (or), "!" (not,
// highest precedence), parenthesized grouping, and "def(name)" atoms
// naming a Named variable. Every line's expression is conjoined into a
// single formula (a lone line is returned as-is rather than wrapped in a
// trivial And), matching the reference implementation's own .model
// parser (parser::model).
func Model(r io.Reader, a *arena.Arena, vars *variable.Table) (*formula.Formula, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var lines []arena.ExprID
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		toks, err := tokenizeModel(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		p := &modelParser{toks: toks, a: a, vars: vars}
		root, err := p.parseOr()
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		if p.pos != len(p.toks) {
			return nil, &ParseError{Line: lineNo, Msg: "trailing tokens after constraint"}
		}
		lines = append(lines, root)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &ParseError{Msg: "no constraints found"}
	}
	if len(lines) == 1 {
		return formula.New(a, vars, lines[0]), nil
	}
	return formula.New(a, vars, a.And(lines...)), nil
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-'
}

func tokenizeModel(s string) ([]string, error) {
	var toks []string
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(' || r == ')' || r == '&' || r == '|' || r == '!':
			toks = append(toks, string(r))
			i++
		default:
			if !isIdentRune(r) {
				return nil, fmt.Errorf("unexpected character %q", r)
			}
			start := i
			for i < len(runes) && isIdentRune(runes[i]) {
				i++
			}
			toks = append(toks, string(runes[start:i]))
		}
	}
	return toks, nil
}

type modelParser struct {
	toks []string
	pos  int
	a    *arena.Arena
	vars *variable.Table
}

func (p *modelParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *modelParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *modelParser) parseOr() (arena.ExprID, error) {
	first, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	kids := []arena.ExprID{first}
	for p.peek() == "|" {
		p.next()
		k, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		kids = append(kids, k)
	}
	if len(kids) == 1 {
		return kids[0], nil
	}
	return p.a.Or(kids...), nil
}

func (p *modelParser) parseAnd() (arena.ExprID, error) {
	first, err := p.parseNot()
	if err != nil {
		return 0, err
	}
	kids := []arena.ExprID{first}
	for p.peek() == "&" {
		p.next()
		k, err := p.parseNot()
		if err != nil {
			return 0, err
		}
		kids = append(kids, k)
	}
	if len(kids) == 1 {
		return kids[0], nil
	}
	return p.a.And(kids...), nil
}

func (p *modelParser) parseNot() (arena.ExprID, error) {
	if p.peek() == "!" {
		p.next()
		inner, err := p.parseNot()
		if err != nil {
			return 0, err
		}
		return p.a.Not(inner), nil
	}
	return p.parseAtom()
}

func (p *modelParser) parseAtom() (arena.ExprID, error) {
	tok := p.next()
	switch {
	case tok == "(":
		inner, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		if got := p.next(); got != ")" {
			return 0, fmt.Errorf("expected ')', got %q", got)
		}
		return inner, nil
	case tok == "def":
		if got := p.next(); got != "(" {
			return 0, fmt.Errorf("expected '(' after 'def', got %q", got)
		}
		name := p.next()
		if name == "" || name == ")" {
			return 0, fmt.Errorf("expected a feature name inside def(...)")
		}
		if got := p.next(); got != ")" {
			return 0, fmt.Errorf("expected ')' to close def(...), got %q", got)
		}
		v := p.vars.InternNamed(name)
		p.vars.SetSurface(v, "def("+name+")")
		return p.a.Var(v), nil
	case tok == "":
		return 0, fmt.Errorf("unexpected end of constraint")
	default:
		return 0, fmt.Errorf("expected 'def(...)' or '(', got %q", tok)
	}
}
