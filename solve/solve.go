// Package solve implements the external solver contract: satisfy, count,
// and enumerate are fulfilled by spawning external SAT/#SAT binaries as
// subprocesses, rather than by an embedded solver, exactly as the
// reference implementation's util::exec module does for kissat, d4, and
// bc_minisat_all respectively. The only cancellation point in the whole
// engine lives here: every entry point takes a context.Context and kills
// its subprocess when it is done.
package solve

import (
	"bufio"
	"bytes"
	"context"
	"math/big"
	"os"
	"os/exec"
)

// Satisfy runs the configured SAT solver on dimacs (DIMACS CNF text) and
// returns a satisfying assignment as signed literals, or nil if the
// instance is unsatisfiable. A missing or failing binary is reported as
// *ErrUnavailable.
func Satisfy(ctx context.Context, paths Paths, dimacs string) ([]int, error) {
	bin, err := resolve(paths.Kissat)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, bin)
	cmd.Stdin = bytes.NewBufferString(dimacs)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	// kissat's own exit code for UNSATISFIABLE is non-zero; only a
	// missing binary or a killed process is a real ErrUnavailable.
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, &ErrUnavailable{Tool: paths.Kissat, Err: err}
		}
	}
	model := ParseKissatOutput(stdout.String())
	if len(model) == 0 {
		return nil, nil
	}
	return model, nil
}

// Count runs the configured #SAT solver on dimacs and returns the number
// of satisfying assignments as an arbitrary-precision integer, since
// feature-model counts routinely overflow any fixed-width type.
func Count(ctx context.Context, paths Paths, dimacs string) (*big.Int, error) {
	bin, err := resolve(paths.D4)
	if err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp("", "fexpr-*.cnf")
	if err != nil {
		return nil, &ErrUnavailable{Tool: paths.D4, Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(dimacs); err != nil {
		tmp.Close()
		return nil, &ErrUnavailable{Tool: paths.D4, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return nil, &ErrUnavailable{Tool: paths.D4, Err: err}
	}

	cmd := exec.CommandContext(ctx, bin, "-i", tmp.Name(), "-m", "counting")
	out, err := cmd.Output()
	if err != nil {
		return nil, &ErrUnavailable{Tool: paths.D4, Err: err}
	}
	count, err := ParseD4Output(string(out))
	if err != nil {
		return nil, &ErrUnavailable{Tool: paths.D4, Err: err}
	}
	return count, nil
}

// Enumerate runs the configured AllSAT solver on dimacs and streams every
// enumerated model on the returned channel, closing it when the solver
// exits or ctx is canceled. Matching the reference implementation, models
// are read from the subprocess's stderr, not its stdout.
func Enumerate(ctx context.Context, paths Paths, dimacs string) (<-chan []int, error) {
	bin, err := resolve(paths.BCMinisatAll)
	if err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp("", "fexpr-*.cnf")
	if err != nil {
		return nil, &ErrUnavailable{Tool: paths.BCMinisatAll, Err: err}
	}
	if _, err := tmp.WriteString(dimacs); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, &ErrUnavailable{Tool: paths.BCMinisatAll, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, &ErrUnavailable{Tool: paths.BCMinisatAll, Err: err}
	}

	cmd := exec.CommandContext(ctx, bin, tmp.Name())
	stderr, err := cmd.StderrPipe()
	if err != nil {
		os.Remove(tmp.Name())
		return nil, &ErrUnavailable{Tool: paths.BCMinisatAll, Err: err}
	}
	if err := cmd.Start(); err != nil {
		os.Remove(tmp.Name())
		return nil, &ErrUnavailable{Tool: paths.BCMinisatAll, Err: err}
	}

	models := make(chan []int)
	go func() {
		defer close(models)
		defer os.Remove(tmp.Name())
		defer cmd.Wait()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			model := ParseAllSATLine(scanner.Text())
			if len(model) == 0 {
				continue
			}
			select {
			case models <- model:
			case <-ctx.Done():
				return
			}
		}
	}()
	return models, nil
}
