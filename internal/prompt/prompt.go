// Package prompt asks the operator questions on a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// ErrNoInput is returned when input ends before an answer was given.
var ErrNoInput = errors.New("no input")

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal behind in, or -1.
	fd int
}

// New creates a Prompter. When in is a terminal, secrets are read without echo.
func New(in io.Reader, out io.Writer) *Prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fd = int(f.Fd())
	}
	return &Prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

// Confirm asks a yes/no question. Anything but y or yes is a no, including end of input.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.ask(ctx, question+" (y/n): ")
	if errors.Is(err, ErrNoInput) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Ask asks for a required value, repeating the question until one is given.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	for {
		answer, err := p.ask(ctx, question+": ")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		if _, err := fmt.Fprintln(p.out, "A value is required."); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
	}
}

// AskSecret is Ask without echoing the answer when reading from a terminal.
func (p *Prompter) AskSecret(ctx context.Context, question string) (string, error) {
	if p.fd < 0 {
		return p.Ask(ctx, question)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if _, err := fmt.Fprint(p.out, question+": "); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
		secret, err := term.ReadPassword(p.fd)
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		if value := strings.TrimSpace(string(secret)); value != "" {
			return value, nil
		}
		if _, err := fmt.Fprintln(p.out, "A value is required."); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
	}
}

// ChooseAction shows the action menu and reads a choice until a valid one is given.
func (p *Prompter) ChooseAction(ctx context.Context) (domain.Action, error) {
	var menu strings.Builder
	menu.WriteString("What do you want to do?\n")
	for _, a := range domain.Actions {
		menu.WriteString("  " + a.Description() + "\n")
	}
	if _, err := fmt.Fprint(p.out, menu.String()); err != nil {
		return domain.ActionNotSet, fmt.Errorf("write prompt: %w", err)
	}

	for {
		answer, err := p.ask(ctx, "Select an action: ")
		if err != nil {
			return domain.ActionNotSet, err
		}

		action, parseErr := domain.ParseAction(answer)
		if parseErr == nil && action != domain.ActionNotSet {
			return action, nil
		}
		if _, err := fmt.Fprintf(p.out, "Invalid choice %q.\n", answer); err != nil {
			return domain.ActionNotSet, fmt.Errorf("write prompt: %w", err)
		}
	}
}

// ask writes prompt and returns the trimmed line read. End of input with
// nothing typed is ErrNoInput.
func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, io.EOF) && line != "":
		return line, nil
	case errors.Is(err, io.EOF):
		return "", ErrNoInput
	default:
		return "", fmt.Errorf("read input: %w", err)
	}
}
