// Package docbuild renders the project's API documentation with an external
// generator and places the result in the conventional output directory.
package docbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"

	"github.com/pynotedb/doctask/internal/logging"
	"github.com/pynotedb/doctask/internal/runner"
	"github.com/pynotedb/doctask/internal/toxini"
)

// ErrNoToolOutput is returned when the generator exits cleanly but its output
// directory is missing.
var ErrNoToolOutput = errors.New("documentation tool produced no output")

// Commander runs external programs. runner.Runner satisfies it.
type Commander interface {
	Run(ctx context.Context, name string, args ...string) (runner.Result, error)
}

// Progress reports long-running steps to the user.
type Progress interface {
	Start(message string)
	Stop()
}

type noopProgress struct{}

func (noopProgress) Start(string) {}
func (noopProgress) Stop()        {}

type Options struct {
	HomeEnv      string
	FallbackHome string
	ToolSuffix   string
	ToolName     string
	Installer    []string
	// ToxFile is scraped for arguments only when Args is empty.
	ToxFile    string
	Args       []string
	OutputDir  string
	ToolOutput string
	WorkDir    string
	DryRun     bool
}

// Report describes a completed build.
type Report struct {
	ToolPath  string
	Installed bool
	Args      []string
	OutputDir string
	DryRun    bool
}

type Builder struct {
	opts      Options
	cmd       Commander
	fs        afero.Fs
	lookupEnv LookupEnvFunc
	progress  Progress
}

func New(opts Options, cmd Commander, fs afero.Fs) *Builder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Builder{
		opts:      opts,
		cmd:       cmd,
		fs:        fs,
		lookupEnv: os.LookupEnv,
		progress:  noopProgress{},
	}
}

// WithLookupEnv replaces the environment lookup used to resolve the home directory.
func (b *Builder) WithLookupEnv(fn LookupEnvFunc) *Builder {
	if fn != nil {
		b.lookupEnv = fn
	}
	return b
}

func (b *Builder) WithProgress(p Progress) *Builder {
	if p != nil {
		b.progress = p
	}
	return b
}

// ToolPath resolves where the documentation tool is expected to be installed.
func (b *Builder) ToolPath() string {
	return ResolveToolPath(b.lookupEnv, b.opts.HomeEnv, b.opts.FallbackHome, b.opts.ToolSuffix)
}

// Build resolves and installs the tool if needed, renders the documentation
// and moves the rendered tree to OutputDir. The first failing step aborts the
// run; nothing is rolled back.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	report := &Report{
		ToolPath:  b.ToolPath(),
		OutputDir: b.path(b.opts.OutputDir),
		DryRun:    b.opts.DryRun,
	}

	installed, err := b.ensureTool(ctx, report.ToolPath)
	if err != nil {
		return nil, err
	}
	report.Installed = installed

	args, err := b.ResolveArgs()
	if err != nil {
		return nil, err
	}
	report.Args = args

	if err := b.removeOutput(report.OutputDir); err != nil {
		return nil, err
	}
	if err := b.render(ctx, report.ToolPath, args); err != nil {
		return nil, err
	}
	if err := b.relocate(b.path(b.opts.ToolOutput), report.OutputDir); err != nil {
		return nil, err
	}

	return report, nil
}

// ResolveArgs returns the configured arguments, or scrapes them from the tox
// file when none are configured.
func (b *Builder) ResolveArgs() ([]string, error) {
	if len(b.opts.Args) > 0 {
		return b.opts.Args, nil
	}
	args, err := toxini.ReadArgs(b.fs, b.path(b.opts.ToxFile), b.opts.ToolName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s arguments: %w", b.opts.ToolName, err)
	}
	logging.Debug().Str("file", b.opts.ToxFile).Str("args", toxini.Join(args)).Msg("Arguments read from tox configuration")
	return args, nil
}

// Clean removes both the final output directory and the tool's raw output.
func (b *Builder) Clean() error {
	for _, dir := range []string{b.opts.OutputDir, b.opts.ToolOutput} {
		if err := b.removeOutput(b.path(dir)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) ensureTool(ctx context.Context, toolPath string) (bool, error) {
	exists, err := afero.Exists(b.fs, toolPath)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", toolPath, err)
	}
	if exists {
		logging.Debug().Str("path", toolPath).Msg("Documentation tool already installed")
		return false, nil
	}
	if len(b.opts.Installer) == 0 {
		return false, fmt.Errorf("%s is not installed at %s and no installer is configured", b.opts.ToolName, toolPath)
	}

	line := runner.CommandLine(b.opts.Installer[0], b.opts.Installer[1:])
	if b.opts.DryRun {
		logging.Info().Str("command", line).Msg("Dry run: would install documentation tool")
		return true, nil
	}

	logging.Info().Str("path", toolPath).Str("command", line).Msg("Installing documentation tool")
	b.progress.Start("Installing " + b.opts.ToolName + "...")
	result, err := b.cmd.Run(ctx, b.opts.Installer[0], b.opts.Installer[1:]...)
	b.progress.Stop()
	if err != nil {
		return false, runner.WrapError("failed to install "+b.opts.ToolName, result, err)
	}
	return true, nil
}

func (b *Builder) removeOutput(dir string) error {
	if b.opts.DryRun {
		logging.Info().Str("path", dir).Msg("Dry run: would remove directory")
		return nil
	}
	if err := b.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	logging.Debug().Str("path", dir).Msg("Removed directory")
	return nil
}

func (b *Builder) render(ctx context.Context, toolPath string, args []string) error {
	line := runner.CommandLine(toolPath, args)
	if b.opts.DryRun {
		logging.Info().Str("command", line).Msg("Dry run: would render documentation")
		return nil
	}

	logging.Info().Str("command", line).Msg("Rendering documentation")
	b.progress.Start("Rendering documentation...")
	result, err := b.cmd.Run(ctx, toolPath, args...)
	b.progress.Stop()
	if out := result.StdoutString(true); out != "" {
		logging.Debug().Str("output", out).Msg("Documentation tool stdout")
	}
	if out := result.StderrString(true); out != "" && err == nil {
		logging.Warn().Str("output", out).Msg("Documentation tool stderr")
	}
	if err != nil {
		return runner.WrapError(b.opts.ToolName+" failed", result, err)
	}
	return nil
}

func (b *Builder) relocate(src, dst string) error {
	if b.opts.DryRun {
		logging.Info().Str("from", src).Str("to", dst).Msg("Dry run: would move rendered output")
		return nil
	}

	exists, err := afero.DirExists(b.fs, src)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", src, err)
	}
	if !exists {
		return fmt.Errorf("%w: expected %s", ErrNoToolOutput, src)
	}
	if err := b.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	err = b.fs.Rename(src, dst)
	if errors.Is(err, syscall.EXDEV) {
		logging.Debug().Str("from", src).Str("to", dst).Msg("Output is on another device, copying")
		err = b.copyTree(src, dst)
	}
	if err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	logging.Debug().Str("from", src).Str("to", dst).Msg("Moved rendered output")
	return nil
}

// copyTree copies src to dst and removes src. A partial dst is removed when
// the copy fails.
func (b *Builder) copyTree(src, dst string) error {
	err := afero.Walk(b.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return b.fs.MkdirAll(target, info.Mode().Perm())
		}
		return b.copyFile(path, target, info.Mode().Perm())
	})
	if err != nil {
		_ = b.fs.RemoveAll(dst)
		return err
	}
	return b.fs.RemoveAll(src)
}

func (b *Builder) copyFile(src, dst string, perm os.FileMode) error {
	in, err := b.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := b.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (b *Builder) path(p string) string {
	if p == "" || filepath.IsAbs(p) || b.opts.WorkDir == "" {
		return p
	}
	return filepath.Join(b.opts.WorkDir, p)
}
