// Package shell implements the imperative command pipeline that drives
// the CLI: a flat list of commands, each either a file path or inline
// .model constraint to push a new formula, or a named operation acting on
// the most recently pushed formula (and, for diff, the two most recent).
// Commands run strictly in order, exactly as the reference
// implementation's own shell module processes its command list, so
// "a.sat to_nnf to_clauses satisfy" reads left to right as a pipeline.
//
// Commands that take arguments pack them into one colon-delimited token
// (assert_count:<n>, diff:<left-kind>:<right-kind>[:<label>]) rather than
// consuming extra elements of the command list, so every pipeline element
// stays self-contained and unambiguous regardless of what follows it.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fexpr-lang/fexpr/arena"
	"github.com/fexpr-lang/fexpr/clause"
	"github.com/fexpr-lang/fexpr/config"
	"github.com/fexpr-lang/fexpr/diff"
	"github.com/fexpr-lang/fexpr/formula"
	"github.com/fexpr-lang/fexpr/parse"
	"github.com/fexpr-lang/fexpr/rewrite"
	"github.com/fexpr-lang/fexpr/solve"
	"github.com/fexpr-lang/fexpr/variable"
)

// Shell holds the state threaded through a command pipeline: one shared
// arena and variable table (so formulas pushed from different files stay
// comparable), the stack of pushed formulas, and the most recently
// materialized clause set.
type Shell struct {
	Arena    *arena.Arena
	Vars     *variable.Table
	Formulas []*formula.Formula
	Clauses  *clause.Set

	Config config.Config
	Paths  solve.Paths
	Out    io.Writer

	lastCount *big.Int
}

// New returns a Shell ready to run a command pipeline.
func New(cfg config.Config, out io.Writer) *Shell {
	vars := variable.New()
	vars.SetAuxPrefix(cfg.AuxPrefix)
	return &Shell{
		Arena:  arena.New(),
		Vars:   vars,
		Config: cfg,
		Paths:  cfg.SolvePaths(),
		Out:    out,
	}
}

func (s *Shell) current() (*formula.Formula, error) {
	if len(s.Formulas) == 0 {
		return nil, fmt.Errorf("shell: no formula pushed yet")
	}
	return s.Formulas[len(s.Formulas)-1], nil
}

func (s *Shell) setCurrent(f *formula.Formula) {
	s.Formulas[len(s.Formulas)-1] = f
	s.Clauses = nil
}

// Run executes commands in order against s.
func (s *Shell) Run(ctx context.Context, commands []string) error {
	if len(commands) == 0 {
		return fmt.Errorf("shell: no commands given")
	}
	for _, cmd := range commands {
		if err := s.step(ctx, cmd); err != nil {
			return fmt.Errorf("shell: %q: %w", cmd, err)
		}
	}
	return nil
}

func (s *Shell) step(ctx context.Context, cmd string) error {
	switch cmd {
	case "print":
		return s.cmdPrint()
	case "print_sub_exprs":
		return s.cmdPrintSubExprs()
	case "to_canon":
		return s.cmdRewrite(func(f *formula.Formula) arena.ExprID { return rewrite.Simplify(f.Arena, f.Root) })
	case "to_nnf":
		return s.cmdRewrite(func(f *formula.Formula) arena.ExprID { return rewrite.NNF(f.Arena, f.Root) })
	case "to_cnf_dist":
		return s.cmdRewrite(func(f *formula.Formula) arena.ExprID { return rewrite.Distributive(f.Arena, f.Root) })
	case "to_cnf_tseitin":
		return s.cmdRewrite(func(f *formula.Formula) arena.ExprID { return rewrite.Tseitin(f.Arena, f.Vars, f.Root) })
	case "to_cnf_pg":
		return s.cmdRewrite(func(f *formula.Formula) arena.ExprID { return rewrite.PlaistedGreenbaum(f.Arena, f.Vars, f.Root) })
	case "to_cnf_partial":
		maxBlowup := s.Config.MaxBlowup
		return s.cmdRewrite(func(f *formula.Formula) arena.ExprID {
			return rewrite.PartialDistributive(f.Arena, f.Vars, f.Root, maxBlowup)
		})
	case "to_clauses":
		return s.cmdToClauses()
	case "satisfy":
		return s.cmdSatisfy(ctx)
	case "count":
		return s.cmdCount(ctx)
	case "count_inc":
		return s.cmdCountInc(ctx)
	case "enumerate":
		return s.cmdEnumerate(ctx)
	case "assert_count":
		return fmt.Errorf("assert_count takes an argument: use assert_count:<n>")
	default:
		if strings.HasPrefix(cmd, "assert_count:") {
			return s.cmdAssertCount(ctx, strings.TrimPrefix(cmd, "assert_count:"))
		}
		if strings.HasPrefix(cmd, "diff:") {
			return s.cmdDiff(ctx, strings.TrimPrefix(cmd, "diff:"))
		}
		return s.push(cmd)
	}
}

func (s *Shell) cmdRewrite(rw func(f *formula.Formula) arena.ExprID) error {
	f, err := s.current()
	if err != nil {
		return err
	}
	root := rw(f)
	s.setCurrent(f.WithRoot(root))
	return nil
}

func (s *Shell) cmdPrint() error {
	if s.Clauses != nil {
		return s.Clauses.WriteDIMACS(s.Out)
	}
	f, err := s.current()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out, f.String())
	return nil
}

func (s *Shell) cmdPrintSubExprs() error {
	f, err := s.current()
	if err != nil {
		return err
	}
	for _, id := range f.SubExprs() {
		fmt.Fprintln(s.Out, f.Arena.Format(id, f.Vars))
	}
	return nil
}

func (s *Shell) cmdToClauses() error {
	f, err := s.current()
	if err != nil {
		return err
	}
	set, err := clause.Materialize(f)
	if err != nil {
		return err
	}
	s.Clauses = set
	return nil
}

func (s *Shell) dimacs() (string, error) {
	if s.Clauses == nil {
		if err := s.cmdToClauses(); err != nil {
			return "", err
		}
	}
	var buf bytes.Buffer
	if err := s.Clauses.WriteDIMACS(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Shell) cmdSatisfy(ctx context.Context) error {
	text, err := s.dimacs()
	if err != nil {
		return err
	}
	model, err := solve.Satisfy(ctx, s.Paths, text)
	if err != nil {
		return err
	}
	if model == nil {
		fmt.Fprintln(s.Out, "UNSATISFIABLE")
		return &solve.ErrUnsatRequested{Detail: "the solver found no satisfying assignment"}
	}
	fmt.Fprintln(s.Out, "SATISFIABLE")
	for _, lit := range model {
		name := s.literalName(lit)
		fmt.Fprintf(s.Out, "%s\n", name)
	}
	return nil
}

func (s *Shell) literalName(lit int) string {
	idx := lit
	neg := false
	if idx < 0 {
		idx = -idx
		neg = true
	}
	if idx < 1 || idx > len(s.Clauses.Vars) {
		return strconv.Itoa(lit)
	}
	name := s.Vars.Name(s.Clauses.Vars[idx-1])
	if neg {
		return "!" + name
	}
	return name
}

func (s *Shell) cmdCount(ctx context.Context) error {
	text, err := s.dimacs()
	if err != nil {
		return err
	}
	n, err := solve.Count(ctx, s.Paths, text)
	if err != nil {
		return err
	}
	s.lastCount = n
	fmt.Fprintln(s.Out, n.String())
	return nil
}

// cmdCountInc reports the incremental change in model count since the
// last count (or count_inc) call in this pipeline, in addition to the
// new absolute count: useful for tracking how a chain of edits to a
// feature model shrank or grew its solution space without re-diffing the
// whole formula.
func (s *Shell) cmdCountInc(ctx context.Context) error {
	prev := s.lastCount
	if err := s.cmdCount(ctx); err != nil {
		return err
	}
	if prev == nil {
		fmt.Fprintln(s.Out, "delta: n/a (no prior count)")
		return nil
	}
	delta := new(big.Int).Sub(s.lastCount, prev)
	fmt.Fprintf(s.Out, "delta: %+d\n", delta)
	return nil
}

func (s *Shell) cmdEnumerate(ctx context.Context) error {
	text, err := s.dimacs()
	if err != nil {
		return err
	}
	models, err := solve.Enumerate(ctx, s.Paths, text)
	if err != nil {
		return err
	}
	n := 0
	for model := range models {
		n++
		fmt.Fprintf(s.Out, "model %d:", n)
		for _, lit := range model {
			fmt.Fprintf(s.Out, " %s", s.literalName(lit))
		}
		fmt.Fprintln(s.Out)
	}
	fmt.Fprintf(s.Out, "%d models\n", n)
	return nil
}

func (s *Shell) cmdAssertCount(ctx context.Context, arg string) error {
	want, ok := new(big.Int).SetString(strings.TrimSpace(arg), 10)
	if !ok {
		return fmt.Errorf("assert_count: %q is not an integer", arg)
	}
	text, err := s.dimacs()
	if err != nil {
		return err
	}
	got, err := solve.Count(ctx, s.Paths, text)
	if err != nil {
		return err
	}
	if got.Cmp(want) != 0 {
		return fmt.Errorf("assert_count: expected %s models, got %s", want, got)
	}
	fmt.Fprintf(s.Out, "assert_count: ok (%s)\n", got)
	return nil
}

// parseStrength maps one diff-kind token (as it appears in the diff
// command's colon-delimited argument list) to a diff.Strength.
func parseStrength(s string) (diff.Strength, error) {
	switch s {
	case "weak":
		return diff.Weak, nil
	case "top-strong":
		return diff.TopStrong, nil
	case "bottom-strong":
		return diff.BottomStrong, nil
	default:
		return 0, fmt.Errorf("diff: unknown diff kind %q (want weak, top-strong, or bottom-strong)", s)
	}
}

// cmdDiff implements the diff <left-kind> <right-kind> [label] command.
// Since every other element of a Shell command pipeline is a single,
// self-contained token (see pushInline and cmdAssertCount's own
// assert_count:<n> convention), the three diff arguments are likewise
// packed into one token as "diff:<left-kind>:<right-kind>[:<label>]"
// rather than three separate pipeline elements, avoiding any ambiguity
// about which later tokens belong to diff versus the next command. arg is
// that token with the leading "diff:" already stripped.
//
// A label, when present, gates two things per the diff engine's contract:
// the count-based model diff (an extra external-solver round trip) and
// writing the DIMACS/diff-text artifacts to that label as a directory.
func (s *Shell) cmdDiff(ctx context.Context, arg string) error {
	if len(s.Formulas) < 2 {
		return fmt.Errorf("diff requires two pushed formulas")
	}
	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("diff: expected diff:<left-kind>:<right-kind>[:<label>], got %q", arg)
	}
	leftKind, err := parseStrength(parts[0])
	if err != nil {
		return err
	}
	rightKind, err := parseStrength(parts[1])
	if err != nil {
		return err
	}
	var label string
	if len(parts) == 3 {
		label = parts[2]
	}

	fa := s.Formulas[len(s.Formulas)-2]
	fb := s.Formulas[len(s.Formulas)-1]

	var res *diff.Result
	if label != "" {
		res, err = diff.CompareWithCounts(ctx, fa, fb, leftKind, rightKind, s.Config.MaxBlowup, s.Paths)
	} else {
		res, err = diff.Compare(fa, fb, leftKind, rightKind, s.Config.MaxBlowup)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "left: %s, right: %s\n", res.LeftStrength, res.RightStrength)
	fmt.Fprintf(s.Out, "common: %d, only a: %d, only b: %d\n", len(res.Common), len(res.OnlyA), len(res.OnlyB))
	if res.Models != nil {
		fmt.Fprintf(s.Out, "models lost: %s, gained: %s, kept: %s\n", res.Models.Lost, res.Models.Gained, res.Models.Kept)
	} else if res.CountsUnavailable {
		fmt.Fprintln(s.Out, "models: unavailable (external counter could not run)")
	}
	if label != "" {
		if err := diff.WriteArtifacts(label, res); err != nil {
			return fmt.Errorf("diff: writing artifacts to %q: %w", label, err)
		}
		fmt.Fprintf(s.Out, "wrote diff artifacts to %s\n", label)
	}
	return nil
}

func (s *Shell) push(cmd string) error {
	if info, err := os.Stat(cmd); err == nil && !info.IsDir() {
		return s.pushFile(cmd)
	}
	return s.pushInline(cmd)
}

func (s *Shell) pushFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var parsed *formula.Formula
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cnf", ".dimacs":
		parsed, err = parse.CNF(f, s.Arena, s.Vars)
	case ".sat":
		parsed, err = parse.SAT(f, s.Arena, s.Vars)
	case ".model":
		parsed, err = parse.Model(f, s.Arena, s.Vars)
	default:
		return fmt.Errorf("unrecognized file extension for %q", path)
	}
	if err != nil {
		return err
	}
	s.Formulas = append(s.Formulas, parsed)
	s.Clauses = nil
	return nil
}

// pushInline parses cmd as a single .model constraint line, matching the
// reference implementation's own inline-formula shorthand for quick
// one-off constraints on the command line without a source file.
func (s *Shell) pushInline(cmd string) error {
	parsed, err := parse.Model(strings.NewReader(cmd), s.Arena, s.Vars)
	if err != nil {
		return fmt.Errorf("not a file and not a valid inline formula: %w", err)
	}
	s.Formulas = append(s.Formulas, parsed)
	s.Clauses = nil
	return nil
}
