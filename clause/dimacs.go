package clause

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDIMACS writes s in DIMACS CNF format: a "c <index> <name>" comment
// line per variable naming the dictionary, the "p cnf V C" problem line,
// and then one line per clause, its literals space-separated and
// terminated by a trailing 0, exactly as gophersat's bf.Formula.Dimacs
// writes its own problems.
func (s *Set) WriteDIMACS(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, id := range s.Vars {
		if _, err := fmt.Fprintf(bw, "c %d %s\n", i+1, s.table.Name(id)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", s.NumVars(), s.NumClauses()); err != nil {
		return err
	}
	for _, cl := range s.Clauses {
		for _, lit := range cl {
			if _, err := fmt.Fprintf(bw, "%d ", lit); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
