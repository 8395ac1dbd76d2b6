package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pynotedb/doctask/internal/logging"
)

// Runner executes external programs with shared logging and output handling.
type Runner struct {
	Verbose bool
	Dir     string
	Env     []string
	// Stdout and Stderr receive a live copy of the child output when Verbose is set.
	Stdout io.Writer
	Stderr io.Writer
}

// Result contains captured stdout/stderr for a command.
type Result struct {
	Stdout []byte
	Stderr []byte
}

func (r Result) StdoutString(trim bool) string {
	output := string(r.Stdout)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Result) StderrString(trim bool) string {
	output := string(r.Stderr)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Runner) withDefaults() Runner {
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
	return r
}

func (r Runner) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

// Run executes name with args, capturing stdout/stderr. In verbose mode the
// output is also streamed to the runner's writers as it is produced.
func (r Runner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	r = r.withDefaults()
	logging.Debug().Str("dir", r.Dir).Msgf("Running: %s", CommandLine(name, args))

	cmd := r.command(ctx, name, args...)
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	if r.Verbose {
		cmd.Stdout = io.MultiWriter(&outBuf, r.Stdout)
		cmd.Stderr = io.MultiWriter(&errBuf, r.Stderr)
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	err := cmd.Run()
	return Result{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}, err
}

// CommandLine renders a command for log and dry-run output.
func CommandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// WrapError builds an error message that prefers the command's stderr output when present.
func WrapError(action string, result Result, err error) error {
	errMsg := result.StderrString(true)
	if errMsg == "" {
		errMsg = result.StdoutString(true)
	}
	if errMsg != "" {
		return fmt.Errorf("%s: %s: %w", action, errMsg, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
