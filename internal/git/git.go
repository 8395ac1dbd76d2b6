// Package git drives a local clone of a Gerrit project through the git
// command line.
package git

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pynotedb/doctask/internal/gitcmd"
	"github.com/pynotedb/doctask/internal/gitutil"
)

// FetchHead is the pseudo-ref git fetch leaves behind.
const FetchHead = "FETCH_HEAD"

const defaultRemote = "origin"

type Options struct {
	Verbose bool
	// Dir is the working tree every command runs in, except Clone.
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

type Client struct {
	runner gitcmd.Runner
}

func NewClient(opts Options) *Client {
	return &Client{runner: gitcmd.Runner{
		Verbose: opts.Verbose,
		Dir:     opts.Dir,
		Env:     opts.Env,
		Stdout:  opts.Stdout,
		Stderr:  opts.Stderr,
	}}
}

func (c *Client) Dir() string {
	return c.runner.Dir
}

func (c *Client) run(ctx context.Context, action string, args ...string) (gitcmd.Result, error) {
	result, err := c.runner.Run(ctx, args...)
	if err != nil {
		return result, gitutil.WrapGitError(action, result, err)
	}
	return result, nil
}

// IsGitRepository reports whether Dir is inside a git work tree.
func (c *Client) IsGitRepository(ctx context.Context) bool {
	_, err := c.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// Init creates an empty repository in Dir.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.run(ctx, "failed to initialise repository", "init", "--quiet")
	return err
}

// Clone clones url into path. Dir is ignored.
func (c *Client) Clone(ctx context.Context, url, path string) error {
	result, err := c.runner.InDir("").Run(ctx, "clone", "--quiet", url, path)
	if err != nil {
		return gitutil.WrapGitError("failed to clone "+url, result, err)
	}
	return nil
}

// SetRemoteURL points origin at url.
func (c *Client) SetRemoteURL(ctx context.Context, url string) error {
	_, err := c.run(ctx, "failed to set remote url", "remote", "set-url", defaultRemote, url)
	return err
}

// Fetch fetches a single ref from origin into FETCH_HEAD.
func (c *Client) Fetch(ctx context.Context, ref string) error {
	if err := gitutil.ValidateRef(ref); err != nil {
		return err
	}
	_, err := c.run(ctx, "failed to fetch "+ref, "fetch", "--quiet", defaultRemote, ref)
	return err
}

// CheckoutBranch resets branch to startPoint and checks it out.
func (c *Client) CheckoutBranch(ctx context.Context, branch, startPoint string) error {
	if err := gitutil.ValidateBranchName(branch); err != nil {
		return err
	}
	_, err := c.run(ctx, "failed to check out "+branch, "checkout", "--quiet", "-B", branch, startPoint)
	return err
}

// FetchCheckout fetches ref and checks it out as branch.
func (c *Client) FetchCheckout(ctx context.Context, branch, ref string) error {
	if err := c.Fetch(ctx, ref); err != nil {
		return err
	}
	return c.CheckoutBranch(ctx, branch, FetchHead)
}

func (c *Client) DeleteBranch(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "failed to delete branch "+branch, "branch", "-D", branch)
	return err
}

// NewOrphan switches to an empty orphan branch and wipes the work tree.
// An existing branch of the same name is deleted first.
func (c *Client) NewOrphan(ctx context.Context, branch string) error {
	if err := gitutil.ValidateBranchName(branch); err != nil {
		return err
	}
	_ = c.DeleteBranch(ctx, branch)
	if _, err := c.run(ctx, "failed to create orphan branch "+branch, "checkout", "--quiet", "--orphan", branch); err != nil {
		return err
	}
	if _, err := c.run(ctx, "failed to clear index", "rm", "--cached", "-r", "-q", "--ignore-unmatch", "--", "."); err != nil {
		return err
	}
	_, err := c.run(ctx, "failed to clean work tree", "clean", "-d", "-f", "-x", "-q")
	return err
}

func (c *Client) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	_, err := c.run(ctx, "failed to stage "+strings.Join(paths, " "), args...)
	return err
}

// Commit commits every staged and tracked change.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "failed to commit", "commit", "--quiet", "-a", "-m", message)
	return err
}

// Push pushes HEAD to ref on origin.
func (c *Client) Push(ctx context.Context, ref string) error {
	if err := gitutil.ValidateRef(ref); err != nil {
		return err
	}
	_, err := c.run(ctx, "failed to push "+ref, "push", "--quiet", defaultRemote, "HEAD:"+ref)
	return err
}

// HasChanges reports whether the index or the work tree differs from HEAD.
func (c *Client) HasChanges(ctx context.Context) (bool, error) {
	result, err := c.run(ctx, "failed to read status", "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return result.StdoutString(true) != "", nil
}

// UpdateRef points ref at the commit named by target.
func (c *Client) UpdateRef(ctx context.Context, ref, target string) error {
	_, err := c.run(ctx, fmt.Sprintf("failed to update %s", ref), "update-ref", ref, target)
	return err
}

// ListTree returns the file names recorded at ref.
func (c *Client) ListTree(ctx context.Context, ref string) ([]string, error) {
	result, err := c.run(ctx, "failed to list "+ref, "ls-tree", "-r", "--name-only", ref)
	if err != nil {
		return nil, err
	}
	return strings.Fields(result.StdoutString(true)), nil
}

// ShowFile returns the content of path at ref.
func (c *Client) ShowFile(ctx context.Context, ref, path string) (string, error) {
	result, err := c.run(ctx, fmt.Sprintf("failed to read %s at %s", path, ref), "show", ref+":"+path)
	if err != nil {
		return "", err
	}
	return result.StdoutString(false), nil
}
