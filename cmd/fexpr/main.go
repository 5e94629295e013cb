// Command fexpr runs a pipeline of commands over feature-model formulas:
// pushing .sat/.cnf/.model files or inline constraints, rewriting them
// toward CNF by various strategies, materializing and solving clause
// sets, and diffing two pushed formulas against each other.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/fexpr-lang/fexpr/config"
	"github.com/fexpr-lang/fexpr/shell"
)

func main() {
	var (
		configPath string
		maxBlowup  int
		auxPrefix  string
		noColor    bool
	)
	flag.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	flag.IntVar(&maxBlowup, "max-blowup", 0, "clause-count threshold for to_cnf_partial and weak diffs (0 disables the threshold)")
	flag.StringVar(&auxPrefix, "aux-prefix", "", "display prefix for auxiliary variables")
	flag.BoolVar(&noColor, "no-color", false, "disable colorized SATISFIABLE/UNSATISFIABLE output")
	flag.Parse()

	if len(flag.Args()) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [options] command [command...]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fexpr: %v\n", err)
			os.Exit(1)
		}
	}
	if maxBlowup != 0 {
		cfg.MaxBlowup = maxBlowup
	}
	if auxPrefix != "" {
		cfg.AuxPrefix = auxPrefix
	}

	color.NoColor = noColor || color.NoColor

	out := &statusWriter{w: os.Stdout}
	sh := shell.New(cfg, out)
	if err := sh.Run(context.Background(), flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "fexpr: %v\n", err)
		os.Exit(1)
	}
}

// statusWriter colorizes the shell's SATISFIABLE/UNSATISFIABLE status
// lines as they pass through, leaving every other line untouched.
type statusWriter struct {
	w   *os.File
	buf []byte
}

func (s *statusWriter) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			break
		}
		line := string(s.buf[:i])
		s.buf = s.buf[i+1:]
		switch line {
		case "SATISFIABLE":
			color.New(color.FgGreen, color.Bold).Fprintln(s.w, line)
		case "UNSATISFIABLE":
			color.New(color.FgRed, color.Bold).Fprintln(s.w, line)
		default:
			fmt.Fprintln(s.w, line)
		}
	}
	return len(p), nil
}
