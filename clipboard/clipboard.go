// Package clipboard copies text to the system clipboard. External
// tools are tried in priority order; when none is installed the text
// goes out as an OSC 52 sequence, which modern terminals apply even
// over ssh.
package clipboard

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/muesli/termenv"
)

// Tool is one way of reaching the clipboard.
type Tool interface {
	Name() string
	Available() bool
	CopyText(text string) error
}

// cmdTool pipes text into an external clipboard command.
type cmdTool struct {
	name string
	argv []string
}

func (c cmdTool) Name() string { return c.name }

func (c cmdTool) Available() bool {
	_, err := exec.LookPath(c.argv[0])
	return err == nil
}

func (c cmdTool) CopyText(text string) error {
	cmd := exec.Command(c.argv[0], c.argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %v (%s)", c.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func platformTools() []Tool {
	return []Tool{
		cmdTool{name: "wl-copy", argv: []string{"wl-copy"}},
		cmdTool{name: "xsel", argv: []string{"xsel", "--input", "--clipboard"}},
		cmdTool{name: "pbcopy", argv: []string{"pbcopy"}},
	}
}

// Copier orchestrates the tools, falling back to OSC 52 through the
// controlling terminal.
type Copier struct {
	tools []Tool
	out   *termenv.Output
}

func New() *Copier {
	return &Copier{tools: platformTools(), out: termenv.DefaultOutput()}
}

// NewWithTools builds a Copier with an explicit tool list, mainly
// for tests. A nil out disables the OSC 52 fallback.
func NewWithTools(tools []Tool, out *termenv.Output) *Copier {
	return &Copier{tools: tools, out: out}
}

// Copy puts text on the clipboard and reports which method worked.
func (c *Copier) Copy(text string) (string, error) {
	for _, t := range c.tools {
		if !t.Available() {
			continue
		}
		if err := t.CopyText(text); err != nil {
			slog.Debug("clipboard tool failed, trying next", "tool", t.Name(), "err", err)
			continue
		}
		return t.Name(), nil
	}

	if c.out != nil {
		c.out.Copy(text)
		return "osc52", nil
	}

	return "", fmt.Errorf("no clipboard tool available")
}
