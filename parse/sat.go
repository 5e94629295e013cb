package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/formula"
	"github.com/fexpr-lang/fexpr/variable"
)

// SAT parses a .sat document from r: optional "c <id> <name>" dictionary
// comments, a "p sat N" header, then a single prefix-notation body using
// "*(...)" for conjunction, "+(...)" for disjunction, "-(...)" for
// negation of its one operand, and signed integers for literals referring
// to the 1..N variable range. Variables named by the dictionary are
// allocated Named; the rest are allocated Auxiliary, matching the
// reference implementation's own .sat parser (parser::sat), which treats
// an unnamed slot in this format as internal bookkeeping rather than a
// natural variable.
func SAT(r io.Reader, a *arena.Arena, vars *variable.Table) (*formula.Formula, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	declared := make(map[int]string)
	numVars := -1
	var bodyLines []string
	line := 0
	headerSeen := false

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if !headerSeen && strings.HasPrefix(text, "c") {
			rest := strings.TrimSpace(strings.TrimPrefix(text, "c"))
			fields := strings.SplitN(rest, " ", 2)
			if len(fields) == 2 {
				if id, err := strconv.Atoi(strings.TrimSpace(fields[0])); err == nil {
					declared[id] = strings.TrimSpace(fields[1])
				}
			}
			continue
		}
		if !headerSeen && strings.HasPrefix(text, "p") {
			fields := strings.Fields(text)
			if len(fields) != 3 || fields[0] != "p" || fields[1] != "sat" {
				return nil, &ParseError{Line: line, Msg: "malformed 'p sat N' header"}
			}
			var err error
			if numVars, err = strconv.Atoi(fields[2]); err != nil {
				return nil, &ParseError{Line: line, Msg: "malformed variable count"}
			}
			headerSeen = true
			continue
		}
		if !headerSeen {
			return nil, &ParseError{Line: line, Msg: "body before 'p sat N' header"}
		}
		bodyLines = append(bodyLines, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !headerSeen {
		return nil, &ParseError{Msg: "missing 'p sat N' header"}
	}

	varIDs := make([]variable.ID, numVars+1)
	for i := 1; i <= numVars; i++ {
		if name, ok := declared[i]; ok {
			varIDs[i] = vars.InternNamed(name)
		} else {
			varIDs[i] = vars.NewAux()
		}
	}

	toks := tokenizeSAT(strings.Join(bodyLines, " "))
	p := &satParser{toks: toks, a: a, varIDs: varIDs}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, &ParseError{Msg: "trailing tokens after formula body"}
	}
	return formula.New(a, vars, root), nil
}

func tokenizeSAT(s string) []string {
	var toks []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			toks = append(toks, buf.String())
			buf.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return toks
}

type satParser struct {
	toks   []string
	pos    int
	a      *arena.Arena
	varIDs []variable.ID
}

func (p *satParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *satParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *satParser) parseExpr() (arena.ExprID, error) {
	tok := p.next()
	switch tok {
	case "*", "+", "-":
		if got := p.next(); got != "(" {
			return 0, &ParseError{Msg: fmt.Sprintf("expected '(' after %q, got %q", tok, got)}
		}
		var kids []arena.ExprID
		for p.peek() != ")" && p.peek() != "" {
			k, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			kids = append(kids, k)
		}
		if got := p.next(); got != ")" {
			return 0, &ParseError{Msg: "unterminated group"}
		}
		switch tok {
		case "*":
			return p.a.And(kids...), nil
		case "+":
			return p.a.Or(kids...), nil
		default:
			if len(kids) != 1 {
				return 0, &ParseError{Msg: fmt.Sprintf("'-' takes exactly one operand, got %d", len(kids))}
			}
			return p.a.Not(kids[0]), nil
		}
	case "":
		return 0, &ParseError{Msg: "unexpected end of formula"}
	default:
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, &ParseError{Msg: fmt.Sprintf("expected a literal or operator, got %q", tok)}
		}
		v := n
		if v < 0 {
			v = -v
		}
		if v < 1 || v >= len(p.varIDs) {
			return 0, &ParseError{Msg: fmt.Sprintf("literal %d out of range", n)}
		}
		lit := p.a.Var(p.varIDs[v])
		if n < 0 {
			lit = p.a.Not(lit)
		}
		return lit, nil
	}
}
