package gitcmd

import (
	"context"
	"io"

	"github.com/pynotedb/doctask/internal/runner"
)

// Runner executes git commands with shared logging and output handling.
type Runner struct {
	Verbose bool
	Dir     string
	Env     []string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Result contains captured stdout/stderr for a git command.
type Result = runner.Result

func (r Runner) process() runner.Runner {
	return runner.Runner{
		Verbose: r.Verbose,
		Dir:     r.Dir,
		Env:     r.Env,
		Stdout:  r.Stdout,
		Stderr:  r.Stderr,
	}
}

// Run executes a git command and captures stdout/stderr.
func (r Runner) Run(ctx context.Context, args ...string) (Result, error) {
	return r.process().Run(ctx, "git", args...)
}

// InDir returns a copy of r that runs in dir.
func (r Runner) InDir(dir string) Runner {
	r.Dir = dir
	return r
}
