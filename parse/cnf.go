package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/formula"
	"github.com/fexpr-lang/fexpr/variable"
)

// CNF parses a DIMACS CNF (.cnf/.dimacs) document from r into a and vars.
// Optional "c <id> <name>" dictionary comments before the "p cnf V C"
// header name individual variables; every variable in 1..V is allocated
// as Named (using its dictionary name, or "v<id>" if undeclared), since
// DIMACS variables are the problem's natural variables, not internal
// bookkeeping.
func CNF(r io.Reader, a *arena.Arena, vars *variable.Table) (*formula.Formula, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	declared := make(map[int]string)
	numVars, numClauses := -1, -1
	var tokens []string
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "c") {
			rest := strings.TrimSpace(strings.TrimPrefix(text, "c"))
			fields := strings.SplitN(rest, " ", 2)
			if len(fields) == 2 {
				if id, err := strconv.Atoi(strings.TrimSpace(fields[0])); err == nil {
					declared[id] = strings.TrimSpace(fields[1])
				}
			}
			continue
		}
		if strings.HasPrefix(text, "p") {
			fields := strings.Fields(text)
			if len(fields) != 4 || fields[0] != "p" || fields[1] != "cnf" {
				return nil, &ParseError{Line: line, Msg: "malformed 'p cnf V C' header"}
			}
			var err error
			if numVars, err = strconv.Atoi(fields[2]); err != nil {
				return nil, &ParseError{Line: line, Msg: "malformed variable count"}
			}
			if numClauses, err = strconv.Atoi(fields[3]); err != nil {
				return nil, &ParseError{Line: line, Msg: "malformed clause count"}
			}
			continue
		}
		if numVars < 0 {
			return nil, &ParseError{Line: line, Msg: "clause data before 'p cnf' header"}
		}
		tokens = append(tokens, strings.Fields(text)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if numVars < 0 {
		return nil, &ParseError{Msg: "missing 'p cnf V C' header"}
	}

	varIDs := make([]variable.ID, numVars+1)
	for i := 1; i <= numVars; i++ {
		name, ok := declared[i]
		if !ok {
			name = fmt.Sprintf("v%d", i)
		}
		varIDs[i] = vars.InternNamed(name)
	}

	var clauses []arena.ExprID
	var cur []arena.ExprID
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("invalid literal %q", tok)}
		}
		if n == 0 {
			clauses = append(clauses, a.Or(cur...))
			cur = nil
			continue
		}
		v := n
		if v < 0 {
			v = -v
		}
		if v < 1 || v > numVars {
			return nil, &ParseError{Msg: fmt.Sprintf("literal %d out of range for %d variables", n, numVars)}
		}
		lit := a.Var(varIDs[v])
		if n < 0 {
			lit = a.Not(lit)
		}
		cur = append(cur, lit)
	}
	if len(cur) > 0 {
		clauses = append(clauses, a.Or(cur...))
	}
	if numClauses >= 0 && len(clauses) != numClauses {
		return nil, &ParseError{Msg: fmt.Sprintf("header declared %d clauses, found %d", numClauses, len(clauses))}
	}

	return formula.New(a, vars, a.And(clauses...)), nil
}
