package docbuild

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveToolPath(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{
			name:     "home set",
			env:      map[string]string{"HOME": "/home/dev"},
			expected: "/home/dev/.local/bin/pdoc3",
		},
		{
			name:     "home unset uses fallback",
			env:      map[string]string{},
			expected: "/root/.local/bin/pdoc3",
		},
		{
			name:     "empty home uses fallback",
			env:      map[string]string{"HOME": ""},
			expected: "/root/.local/bin/pdoc3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveToolPath(env(tt.env), "HOME", "/root", ".local/bin/pdoc3")
			assert.Equal(t, filepath.FromSlash(tt.expected), got)
		})
	}
}

func TestResolveToolPath_CustomEnv(t *testing.T) {
	lookup := env(map[string]string{"HOME": "/home/dev", "DOCS_HOME": "/opt/docs"})
	assert.Equal(t, filepath.FromSlash("/opt/docs/bin/pdoc3"), ResolveToolPath(lookup, "DOCS_HOME", "/root", "bin/pdoc3"))
}

func TestResolveToolPath_DefaultLookup(t *testing.T) {
	t.Setenv("DOCTASK_TEST_HOME", "/srv/build")
	assert.Equal(t, filepath.FromSlash("/srv/build/.local/bin/pdoc3"),
		ResolveToolPath(nil, "DOCTASK_TEST_HOME", "/root", ".local/bin/pdoc3"))
}

func TestBuilderToolPath(t *testing.T) {
	b := New(testOptions(), nil, nil).WithLookupEnv(env(map[string]string{}))
	assert.Equal(t, filepath.FromSlash("/root/.local/bin/pdoc3"), b.ToolPath())
}
