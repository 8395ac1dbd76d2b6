// Package toxini extracts tool arguments from a tox configuration file.
//
// Only the textual shape of a line matters: tokens are split on whitespace and
// the first line starting with "commands = <tool>" wins. Sections, continuation
// lines and substitutions are not interpreted.
package toxini

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// ErrCommandNotFound is returned when no line declares the requested tool.
var ErrCommandNotFound = errors.New("tool command declaration not found")

const (
	commandsKey = "commands"
	assignToken = "="
)

// Prefix returns the token sequence that marks a declaration for tool.
func Prefix(tool string) []string {
	return []string{commandsKey, assignToken, tool}
}

// ParseArgs returns the tokens following "commands = <tool>" on the first
// matching line of r. Lines of any length are read.
func ParseArgs(r io.Reader, tool string) ([]string, error) {
	prefix := Prefix(tool)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if tokens := strings.Fields(line); hasPrefix(tokens, prefix) {
			return tokens[len(prefix):], nil
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: no line starts with %q", ErrCommandNotFound, strings.Join(prefix, " "))
}

// ReadArgs opens path on fsys and parses it with ParseArgs.
func ReadArgs(fsys afero.Fs, path, tool string) ([]string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	args, err := ParseArgs(f, tool)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return args, nil
}

// Join renders args the way they appear on the declaration line.
func Join(args []string) string {
	return strings.Join(args, " ")
}

func hasPrefix(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if tokens[i] != p {
			return false
		}
	}
	return true
}
