package solve

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ParseKissatOutput extracts a satisfying assignment from a SAT solver's
// stdout: every token on every line beginning with "v " is a signed
// literal, 0 is a line terminator rather than a literal, and an empty
// result means the instance is unsatisfiable. This is deliberately liberal
// about the rest of the output (comment lines, an "s SATISFIABLE"/"s
// UNSATISFIABLE" status line), matching the reference implementation's own
// kissat adapter, which reads only the "v " lines.
func ParseKissatOutput(stdout string) []int {
	var model []int
	for _, line := range strings.Split(stdout, "\n") {
		if !strings.HasPrefix(line, "v ") {
			continue
		}
		for _, tok := range strings.Fields(line[2:]) {
			n, err := strconv.Atoi(tok)
			if err == nil && n != 0 {
				model = append(model, n)
			}
		}
	}
	return model
}

// ParseD4Output extracts a model count from a #SAT solver's stdout: the
// first line beginning with "s " holds the count as a decimal integer,
// arbitrarily large, hence math/big rather than a machine int.
func ParseD4Output(stdout string) (*big.Int, error) {
	for _, line := range strings.Split(stdout, "\n") {
		if !strings.HasPrefix(line, "s ") {
			continue
		}
		n := new(big.Int)
		if _, ok := n.SetString(strings.TrimSpace(line[2:]), 10); !ok {
			return nil, fmt.Errorf("solve: could not parse count from line %q", line)
		}
		return n, nil
	}
	return nil, fmt.Errorf("solve: no count line in solver output")
}

// ParseAllSATLine extracts one enumerated model from a single line of an
// AllSAT solver's output: space-separated signed literals, 0 dropped.
func ParseAllSATLine(line string) []int {
	var model []int
	for _, tok := range strings.Fields(line) {
		n, err := strconv.Atoi(tok)
		if err == nil && n != 0 {
			model = append(model, n)
		}
	}
	return model
}
