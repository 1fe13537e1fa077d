package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// CodePrompter obtains the authorization code the user received after approving
// access in the browser.
type CodePrompter interface {
	PromptCode(ctx context.Context) (string, error)
}

// CodePrompterFunc adapts a function to CodePrompter.
type CodePrompterFunc func(ctx context.Context) (string, error)

// PromptCode calls f(ctx).
func (f CodePrompterFunc) PromptCode(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticCode returns a CodePrompter that answers with a pre-supplied code.
func StaticCode(code string) CodePrompter {
	return CodePrompterFunc(func(context.Context) (string, error) {
		return code, nil
	})
}

// TerminalPrompter asks for the code on a terminal. Input is hidden when in is a
// terminal; otherwise one line is read.
type TerminalPrompter struct {
	in  io.Reader
	out io.Writer
}

// Compile-time check to ensure TerminalPrompter implements CodePrompter
var _ CodePrompter = (*TerminalPrompter)(nil)

// NewTerminalPrompter creates a TerminalPrompter reading from in and writing the prompt to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

// PromptCode blocks until a line is entered. End of input yields an empty code.
func (p *TerminalPrompter) PromptCode(_ context.Context) (string, error) {
	_, _ = fmt.Fprint(p.out, "Enter the authorization code from the browser: ")

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		code, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("reading authorization code: %w", err)
		}
		return strings.TrimSpace(string(code)), nil
	}

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading authorization code: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// BrowserOpener opens url in the user's browser.
type BrowserOpener func(url string) error

// OpenBrowser launches the platform's default browser without waiting for it.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	return cmd.Start()
}
