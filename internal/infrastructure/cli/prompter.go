package cli

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/terminalfellow/terminalfellow/internal/ports"
)

// ErrAborted is returned when the user escapes out of a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter implements the interactive ports with huh forms.
type Prompter struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

// NewPrompter constructs a prompter. Forms are drawn on out, which should be
// stderr so stdout only carries commands.
func NewPrompter(in io.Reader, out io.Writer, interactive func() bool) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	if interactive == nil {
		interactive = stdinIsTerminal
	}
	return &Prompter{in: in, out: out, interactive: interactive}
}

// Enabled indicates the prompter can reach a user.
func (p *Prompter) Enabled() bool {
	return p.interactive()
}

// APIKey asks for the OpenAI key without echoing it.
func (p *Prompter) APIKey() (string, error) {
	var key string
	err := p.run(huh.NewInput().
		Title("Enter your OpenAI API key").
		EchoMode(huh.EchoModePassword).
		Value(&key))
	return key, err
}

// UseHistory asks whether shell history may be sent as context.
func (p *Prompter) UseHistory(defaultValue bool) (bool, error) {
	value := defaultValue
	err := p.run(huh.NewConfirm().
		Title("Would you like to use command history for context?").
		Affirmative("Yes").
		Negative("No").
		Value(&value))
	return value, err
}

// HistoryFile asks for the history path, prefilled with defaultPath.
func (p *Prompter) HistoryFile(defaultPath string) (string, error) {
	value := defaultPath
	err := p.run(huh.NewInput().
		Title("Path to your shell history file").
		Placeholder(defaultPath).
		Value(&value))
	return value, err
}

// ConfirmExecute asks before a generated command is run.
func (p *Prompter) ConfirmExecute(command string) (bool, error) {
	var ok bool
	err := p.run(huh.NewConfirm().
		Title("Run this command?").
		Description(command).
		Affirmative("Run").
		Negative("Cancel").
		Value(&ok))
	return ok, err
}

func (p *Prompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithShowHelp(false).
		WithInput(p.in).
		WithOutput(p.out)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

var (
	_ ports.SetupPrompter        = (*Prompter)(nil)
	_ ports.ConfirmationPrompter = (*Prompter)(nil)
)
