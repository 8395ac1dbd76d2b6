package ui

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner wraps briandowns/spinner and stays silent when stderr is not a TTY.
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewSpinner creates a spinner that only displays on a terminal.
func NewSpinner() *Spinner {
	enabled := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return newSpinner(os.Stderr, enabled)
}

func newSpinner(w io.Writer, enabled bool) *Spinner {
	if !enabled {
		return &Spinner{enabled: false}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	return &Spinner{s: s, enabled: true}
}

// Start shows message next to the animation, restarting it if already running.
func (sp *Spinner) Start(message string) {
	if !sp.enabled || sp.s == nil {
		return
	}
	sp.s.Suffix = " " + message
	sp.s.Restart()
}

func (sp *Spinner) Stop() {
	if sp.enabled && sp.s != nil {
		sp.s.Stop()
	}
}

// Active reports whether the spinner is currently animating.
func (sp *Spinner) Active() bool {
	return sp.enabled && sp.s != nil && sp.s.Active()
}
