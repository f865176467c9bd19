package cli

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// activity is a progress indicator for a blocking call.
type activity interface {
	Start()
	Stop()
}

type noActivity struct{}

func (noActivity) Start() {}
func (noActivity) Stop()  {}

// newActivity returns a spinner on w when w is a terminal. Anything else,
// including pipes and test buffers, gets a no-op so that output stays clean.
func newActivity(w io.Writer, label string) activity {
	if !isTerminal(w) {
		return noActivity{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + label
	_ = s.Color("yellow", "bold")
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// stdinIsTerminal reports whether interactive prompts can be shown.
func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
