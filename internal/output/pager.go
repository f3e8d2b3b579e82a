// Package output holds terminal plumbing shared by commands: exit codes and
// paging of long output.
package output

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

// Exit codes for consistent error reporting.
const (
	ExitOK          = 0 // success
	ExitUserError   = 1 // bad flags, missing file, no selection
	ExitSystemError = 2 // IO error, unreadable workbook
)

// ShouldPage returns true if content written to w should go through a pager:
// w is a terminal and the content is taller than height lines.
func ShouldPage(w io.Writer, content string, height int) bool {
	if height <= 0 || !IsTerminal(w) {
		return false
	}
	return strings.Count(content, "\n") > height
}

// Page pipes content through the user's preferred pager (PAGER env, or "less")
// onto w. When the pager cannot be started the content is written to w directly.
func Page(w io.Writer, content string) error {
	args := strings.Fields(os.Getenv("PAGER"))
	if len(args) == 0 {
		args = []string{"less"}
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = w
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		_, err := io.WriteString(w, content)
		return err
	}
	return cmd.Wait()
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
