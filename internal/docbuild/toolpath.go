package docbuild

import (
	"os"
	"path/filepath"
)

// LookupEnvFunc matches os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// ResolveToolPath returns the expected install location of the documentation
// tool: the home directory named by homeEnv (fallbackHome when unset or empty)
// joined with suffix.
func ResolveToolPath(lookup LookupEnvFunc, homeEnv, fallbackHome, suffix string) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	home, ok := lookup(homeEnv)
	if !ok || home == "" {
		home = fallbackHome
	}
	return filepath.Join(home, suffix)
}
