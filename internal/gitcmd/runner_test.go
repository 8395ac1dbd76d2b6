package gitcmd

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInDir(t *testing.T) {
	base := Runner{Verbose: true, Env: []string{"A=1"}}
	moved := base.InDir("/srv/all-users")

	assert.Equal(t, "/srv/all-users", moved.Dir)
	assert.Empty(t, base.Dir)
	assert.True(t, moved.Verbose)
	assert.Equal(t, []string{"A=1"}, moved.Env)
}

func TestRun_GitVersion(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	result, err := Runner{Dir: t.TempDir()}.Run(context.Background(), "--version")
	require.NoError(t, err)
	assert.Contains(t, result.StdoutString(true), "git version")
}

func TestRun_FailureCapturesStderr(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	result, err := Runner{Dir: t.TempDir()}.Run(context.Background(), "rev-parse", "--verify", "refs/meta/config")
	require.Error(t, err)
	assert.NotEmpty(t, result.StderrString(true))
}
