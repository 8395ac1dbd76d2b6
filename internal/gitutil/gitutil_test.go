package gitutil

import (
	"errors"
	"testing"

	"github.com/pynotedb/doctask/internal/gitcmd"
	"github.com/stretchr/testify/assert"
)

func TestWrapGitError(t *testing.T) {
	base := errors.New("exit status 128")

	err := WrapGitError("failed to fetch refs/users/01/1", gitcmd.Result{Stderr: []byte("fatal: couldn't find remote ref\n")}, base)
	assert.EqualError(t, err, "failed to fetch refs/users/01/1: fatal: couldn't find remote ref: exit status 128")
	assert.ErrorIs(t, err, base)

	err = WrapGitError("failed to push", gitcmd.Result{Stdout: []byte("ignored")}, base)
	assert.EqualError(t, err, "failed to push: exit status 128")
}

func TestValidateBranchName(t *testing.T) {
	tests := []struct {
		name    string
		branch  string
		wantErr string
	}{
		{"plain", "group_admin", ""},
		{"empty", "", "cannot be empty"},
		{"option", "-D", "cannot start with '-'"},
		{"dots", "a..b", "cannot contain '..'"},
		{"space", "user admin", "invalid character"},
		{"colon", "HEAD:refs", "invalid character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBranchName(tt.branch)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateRef(t *testing.T) {
	assert.NoError(t, ValidateRef("refs/users/01/1"))
	assert.NoError(t, ValidateRef("refs/meta/external-ids"))
	assert.NoError(t, ValidateRef("FETCH_HEAD"))
	assert.ErrorContains(t, ValidateRef("users/01/1"), "must start with 'refs/'")
	assert.ErrorContains(t, ValidateRef("refs/groups//1"), "empty component")
	assert.ErrorContains(t, ValidateRef("refs/groups/"), "empty component")
}
