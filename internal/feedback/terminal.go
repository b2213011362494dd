package feedback

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/term"
)

var plainPolicy = bluemonday.StrictPolicy()

// TerminalPresenter shows dialogs on a terminal and reads answers from it.
type TerminalPresenter struct {
	in  io.Reader
	out io.Writer
	br  *bufio.Reader
}

// NewTerminalPresenter reads answers from in and writes prompts to out.
func NewTerminalPresenter(in io.Reader, out io.Writer) *TerminalPresenter {
	return &TerminalPresenter{in: in, out: out, br: bufio.NewReader(in)}
}

// Notify prints the dialog.
func (p *TerminalPresenter) Notify(_ context.Context, d Dialog) error {
	icon := map[Kind]string{KindSuccess: "✓", KindError: "✗", KindInfo: "i"}[d.Kind]
	if icon != "" {
		icon += " "
	}

	text := d.Text
	if text == "" && d.HTML != "" {
		text = plainPolicy.Sanitize(string(d.HTML))
	}

	_, err := fmt.Fprintf(p.out, "%s%s\n", icon, d.Title)
	if err == nil && text != "" {
		_, err = fmt.Fprintln(p.out, text)
	}
	return err
}

// Confirm asks a y/N question. Anything but y or yes, including EOF, is a no.
func (p *TerminalPresenter) Confirm(ctx context.Context, d Dialog) (bool, error) {
	question := d.Title
	if d.Text != "" {
		question += "\n" + d.Text
	}

	answer, err := p.ReadLine(ctx, question+" [y/N]: ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ReadLine prompts and returns one line without its line ending.
func (p *TerminalPresenter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}

	line, err := p.br.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret prompts for a value without echoing it when attached to a terminal.
func (p *TerminalPresenter) ReadSecret(ctx context.Context, prompt string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.ReadLine(ctx, prompt)
	}

	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(secret), nil
}
