package gitutil

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateBranchName rejects local branch names git would refuse or
// misread as an option.
func ValidateBranchName(name string) error {
	if name == "" {
		return errors.New("branch name cannot be empty")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("branch name cannot start with '-': %s", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("branch name cannot contain '..': %s", name)
	}
	for _, ch := range []string{" ", "~", "^", ":", "?", "*", "["} {
		if strings.Contains(name, ch) {
			return fmt.Errorf("branch name contains invalid character %q: %s", ch, name)
		}
	}
	return nil
}

// ValidateRef checks a fully qualified ref such as refs/users/01/1.
// FETCH_HEAD is accepted as-is.
func ValidateRef(ref string) error {
	if ref == "FETCH_HEAD" {
		return nil
	}
	if !strings.HasPrefix(ref, "refs/") {
		return fmt.Errorf("ref must start with 'refs/': %s", ref)
	}
	if strings.HasSuffix(ref, "/") || strings.Contains(ref, "//") {
		return fmt.Errorf("ref has an empty component: %s", ref)
	}
	return ValidateBranchName(strings.TrimPrefix(ref, "refs/"))
}
