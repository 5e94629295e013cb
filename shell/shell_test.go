package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fexpr-lang/fexpr/config"
	"github.com/fexpr-lang/fexpr/shell"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("could not write %q: %v", path, err)
	}
	return path
}

func TestPrintRendersInfixFormula(t *testing.T) {
	path := writeTemp(t, "a.model", "def(A) & def(B)\n")
	var out bytes.Buffer
	sh := shell.New(config.Default(), &out)
	if err := sh.Run(context.Background(), []string{path, "print"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "A") || !strings.Contains(out.String(), "B") {
		t.Fatalf("expected rendered formula to mention A and B, got %q", out.String())
	}
}

func TestToClausesThenPrintWritesDIMACS(t *testing.T) {
	path := writeTemp(t, "a.model", "def(A) & (def(B) | !def(C))\n")
	var out bytes.Buffer
	sh := shell.New(config.Default(), &out)
	if err := sh.Run(context.Background(), []string{path, "to_cnf_dist", "to_clauses", "print"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "p cnf") {
		t.Fatalf("expected DIMACS output, got %q", out.String())
	}
}

func TestUnrecognizedCommandWithNoPushableInterpretationErrors(t *testing.T) {
	var out bytes.Buffer
	sh := shell.New(config.Default(), &out)
	if err := sh.Run(context.Background(), []string{"???not-a-file-or-formula"}); err == nil {
		t.Fatalf("expected an error for a command that is neither a file nor a valid inline formula")
	}
}

func TestDiffRequiresTwoFormulas(t *testing.T) {
	path := writeTemp(t, "a.model", "def(A)\n")
	var out bytes.Buffer
	sh := shell.New(config.Default(), &out)
	if err := sh.Run(context.Background(), []string{path, "diff:weak:weak"}); err == nil {
		t.Fatalf("expected diff:weak:weak to fail with only one pushed formula")
	}
}

func TestDiffWeakOnIdenticalFormulasReportsNoDifference(t *testing.T) {
	path := writeTemp(t, "a.model", "def(A) & def(B)\n")
	var out bytes.Buffer
	sh := shell.New(config.Default(), &out)
	if err := sh.Run(context.Background(), []string{path, path, "diff:weak:weak"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "only a: 0, only b: 0") {
		t.Fatalf("expected no side-specific clauses for identical formulas, got %q", out.String())
	}
}

func TestDiffAllowsIndependentKindsAndWritesLabeledArtifacts(t *testing.T) {
	path := writeTemp(t, "a.model", "def(A) & def(B)\n")
	dir := t.TempDir()
	label := filepath.Join(dir, "out")
	var out bytes.Buffer
	sh := shell.New(config.Default(), &out)
	if err := sh.Run(context.Background(), []string{path, path, "diff:weak:bottom-strong:" + label}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "left: weak, right: bottom-strong") {
		t.Fatalf("expected the report to name each side's kind independently, got %q", out.String())
	}
	for _, name := range []string{"a.dimacs", "b.dimacs", "diff.txt"} {
		if _, err := os.Stat(filepath.Join(label, name)); err != nil {
			t.Fatalf("expected %s to be written under %s: %v", name, label, err)
		}
	}
}

func TestDiffRejectsUnknownKind(t *testing.T) {
	path := writeTemp(t, "a.model", "def(A)\n")
	var out bytes.Buffer
	sh := shell.New(config.Default(), &out)
	if err := sh.Run(context.Background(), []string{path, path, "diff:sideways:weak"}); err == nil {
		t.Fatalf("expected an error for an unrecognized diff kind")
	}
}
