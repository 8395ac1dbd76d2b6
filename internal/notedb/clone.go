package notedb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/pynotedb/doctask/internal/git"
	"github.com/pynotedb/doctask/internal/logging"
)

// ErrGroupNotFound is returned when the groups file does not name exactly one
// group with the requested name.
var ErrGroupNotFound = errors.New("group not found")

type Options struct {
	// CacheDir holds one clone per project, named after the project.
	CacheDir string
	Verbose  bool
	// Env is appended to the environment of every git command.
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
	// Fs is the filesystem the clone lives on. Defaults to the OS filesystem.
	Fs afero.Fs
}

// Clone is a work tree of a Gerrit project kept in the cache directory.
type Clone struct {
	git  *git.Client
	fs   afero.Fs
	path string
	url  string
}

// DefaultCacheDir returns the cache directory under home.
func DefaultCacheDir(home string) string {
	return filepath.Join(home, ".cache", "pynotedb")
}

// ProjectName derives the clone directory name from a repository url:
// the last path element without a ".git" suffix.
func ProjectName(url string) (string, error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	name := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("cannot derive a project name from %q", url)
	}
	return name, nil
}

// Open clones url into the cache, or re-points an existing clone at url.
func Open(ctx context.Context, url string, opts Options) (*Clone, error) {
	if opts.CacheDir == "" {
		return nil, errors.New("clone cache directory is not set")
	}
	name, err := ProjectName(url)
	if err != nil {
		return nil, err
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	path := filepath.Join(opts.CacheDir, name)
	c := &Clone{
		git: git.NewClient(git.Options{
			Verbose: opts.Verbose,
			Dir:     path,
			Env:     opts.Env,
			Stdout:  opts.Stdout,
			Stderr:  opts.Stderr,
		}),
		fs:   afero.NewBasePathFs(fs, path),
		path: path,
		url:  url,
	}

	exists, err := afero.DirExists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", path, err)
	}
	if exists {
		logging.Debug().Str("path", path).Str("url", url).Msg("Reusing cached clone")
		if err := c.git.SetRemoteURL(ctx, url); err != nil {
			return nil, err
		}
		return c, nil
	}

	if err := fs.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	logging.Info().Str("path", path).Str("url", url).Msg("Cloning")
	if err := c.git.Clone(ctx, url, path); err != nil {
		// A half-made directory would be mistaken for a clone next time.
		_ = fs.RemoveAll(path)
		return nil, err
	}
	return c, nil
}

func (c *Clone) Path() string {
	return c.path
}

func (c *Clone) String() string {
	return c.path
}

// Git exposes the underlying client.
func (c *Clone) Git() *git.Client {
	return c.git
}

func (c *Clone) readFile(name string) (string, error) {
	data, err := afero.ReadFile(c.fs, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Clone) writeFile(name, content string) error {
	if err := afero.WriteFile(c.fs, name, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Join(c.path, name), err)
	}
	return nil
}

// GroupID checks out refs/meta/config and looks name up in its groups file.
func (c *Clone) GroupID(ctx context.Context, name string) (string, error) {
	if err := c.git.FetchCheckout(ctx, "meta_config", MetaConfigRef); err != nil {
		return "", err
	}
	f, err := c.fs.Open("groups")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w: %s has no groups file", c.path, ErrGroupNotFound, MetaConfigRef)
		}
		return "", fmt.Errorf("failed to open groups: %w", err)
	}
	defer f.Close()

	id, ok, err := ParseGroupID(f, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s: %w: %s", c.path, ErrGroupNotFound, name)
	}
	return id, nil
}

// commitAndPush commits pending changes, if any, and pushes HEAD to ref.
func (c *Clone) commitAndPush(ctx context.Context, message, ref string) error {
	changed, err := c.git.HasChanges(ctx)
	if err != nil {
		return err
	}
	if changed {
		if err := c.git.Commit(ctx, message); err != nil {
			return err
		}
	} else {
		logging.Debug().Str("ref", ref).Msg("Nothing to commit")
	}
	logging.Info().Str("ref", ref).Msg(message)
	return c.git.Push(ctx, ref)
}

func (c *Clone) writeExternalIDs(ids ...ExternalID) error {
	for _, id := range ids {
		if err := c.writeFile(id.FileName(), id.Content()); err != nil {
			return err
		}
	}
	return nil
}

// AddExternalID records the ssh and http login ids of an existing account in
// refs/meta/external-ids.
func (c *Clone) AddExternalID(ctx context.Context, username, accountID string) error {
	if username == "" || accountID == "" {
		return errors.New("username and account id are required")
	}
	if err := c.git.FetchCheckout(ctx, "ids", ExternalIDsRef); err != nil {
		return err
	}
	if err := c.writeExternalIDs(LoginIDs(username, accountID)...); err != nil {
		return err
	}
	if err := c.git.Add(ctx, "."); err != nil {
		return err
	}
	return c.commitAndPush(ctx, "Add externalId for user "+username, ExternalIDsRef)
}
