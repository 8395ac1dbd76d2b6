// Package clidoc renders the command reference of a cobra command tree.
package clidoc

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

type generator func(root *cobra.Command, dir string) error

var generators = map[string]generator{
	"man": func(root *cobra.Command, dir string) error {
		header := &doc.GenManHeader{
			Title:   strings.ToUpper(root.Name()),
			Section: "1",
			Source:  root.Name(),
			Manual:  root.Name() + " Manual",
		}
		return doc.GenManTree(root, header, dir)
	},
	"markdown": doc.GenMarkdownTree,
	"rest":     doc.GenReSTTree,
	"yaml":     doc.GenYamlTree,
}

// DefaultDirs maps each format to its conventional output directory.
var DefaultDirs = map[string]string{
	"man":      "docs/man",
	"markdown": "docs/cli",
	"rest":     "docs/cli",
	"yaml":     "docs/cli",
}

// Formats lists the supported formats in sorted order.
func Formats() []string {
	formats := make([]string, 0, len(generators))
	for f := range generators {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Generate writes one page per command of root into dir. The generated
// pages carry no timestamp footer so repeated runs give identical output.
func Generate(root *cobra.Command, format, dir string) error {
	gen, ok := generators[format]
	if !ok {
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	disableAutoGenTag(root)
	if err := gen(root, dir); err != nil {
		return fmt.Errorf("failed to generate %s pages: %w", format, err)
	}
	return nil
}

func disableAutoGenTag(c *cobra.Command) {
	c.DisableAutoGenTag = true
	for _, sub := range c.Commands() {
		disableAutoGenTag(sub)
	}
}
