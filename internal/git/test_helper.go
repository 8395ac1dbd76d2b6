//go:build !prod

package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestIdentity is the committer used by test repositories. It also keeps the
// user's global and system git configuration out of the way.
var TestIdentity = []string{
	"GIT_AUTHOR_NAME=doctask test",
	"GIT_AUTHOR_EMAIL=test@doctask.invalid",
	"GIT_COMMITTER_NAME=doctask test",
	"GIT_COMMITTER_EMAIL=test@doctask.invalid",
	"GIT_CONFIG_NOSYSTEM=1",
	"GIT_CONFIG_GLOBAL=" + os.DevNull,
}

// RequireGit skips the test when the git binary is not installed.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// CreateSafeTempRepo initialises a repository in a fresh temporary directory
// named name and returns a client bound to it.
func CreateSafeTempRepo(t *testing.T, name string) *Client {
	t.Helper()
	RequireGit(t)

	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	AssertNotInRealRepo(t, dir)

	client := NewClient(Options{Dir: dir, Env: TestIdentity})
	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("Failed to initialise %s: %v", dir, err)
	}
	return client
}

// CommitFile writes content to name inside the client's work tree and commits it.
func CommitFile(t *testing.T, client *Client, name, content, message string) {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(client.Dir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	if err := client.Add(ctx, name); err != nil {
		t.Fatalf("Failed to stage %s: %v", name, err)
	}
	if err := client.Commit(ctx, message); err != nil {
		t.Fatalf("Failed to commit %s: %v", name, err)
	}
}

// AssertNotInRealRepo fails the test unless dir lives under the system temp
// directory. Every git test mutates refs, so it must never touch a checkout.
func AssertNotInRealRepo(t *testing.T, dir string) {
	t.Helper()

	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("Failed to resolve %s: %v", dir, err)
	}
	tmp, err := filepath.Abs(os.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp directory: %v", err)
	}
	if !strings.HasPrefix(abs, tmp+string(filepath.Separator)) {
		t.Fatalf("SAFETY: git test directory %s is outside %s", abs, tmp)
	}
}
