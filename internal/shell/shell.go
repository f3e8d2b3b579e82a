// Package shell provides the interactive session run on an open workbook:
// the installed export menu plus commands to change the selection.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/klytics/sheetjson/internal/export"
	"github.com/klytics/sheetjson/internal/host"
	"github.com/klytics/sheetjson/internal/menu"
	"github.com/klytics/sheetjson/internal/present"
)

// Workbook is the open document a session works on.
type Workbook interface {
	host.Selector
	Select(ref string) error
	Selected() string
	Reload() error
}

// ErrExit is returned by Eval for the exit command.
var ErrExit = errors.New("exit")

// Session manages an interactive export session.
type Session struct {
	Workbook       Workbook
	Menu           host.Menu
	Out            io.Writer
	Err            io.Writer
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time
}

// NewSession creates a session on wb with the installed menu m.
func NewSession(wb Workbook, m host.Menu) *Session {
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".sheetjson", "shell_history")
	os.MkdirAll(filepath.Dir(histFile), 0755)

	return &Session{
		Workbook:    wb,
		Menu:        m,
		Out:         os.Stdout,
		Err:         os.Stderr,
		HistoryFile: histFile,
		StartTime:   time.Now(),
	}
}

// Run starts the REPL loop. Blocks until 'exit', Ctrl+D or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sheetjson> ",
		HistoryFile:     s.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(s.buildCompleter()...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(s.Out, "sheetjson — interactive session")
	fmt.Fprintln(s.Out, "Type 'menu' for export commands, 'help' for more, 'exit' to quit.")
	fmt.Fprintln(s.Out)

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if err := s.Eval(line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			// The alert already explained a missing selection.
			if !errors.Is(err, export.ErrInvalidSelection) {
				fmt.Fprintf(s.Err, "Error: %s\n", err)
			}
		}
	}
	return nil
}

// Eval runs a single session command.
func (s *Session) Eval(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	s.CommandHistory = append(s.CommandHistory, line)

	fields := strings.Fields(line)
	switch cmd := strings.ToLower(fields[0]); {
	case cmd == "exit" || cmd == "quit":
		fmt.Fprintf(s.Out, "\nSession ended. %d commands run in %s.\n",
			len(s.CommandHistory)-1, formatDuration(time.Since(s.StartTime)))
		return ErrExit
	case cmd == "help":
		s.printHelp()
	case cmd == "menu":
		present.WriteMenu(s.Out, s.Menu)
	case cmd == "history":
		for i, c := range s.CommandHistory {
			fmt.Fprintf(s.Out, "  %d  %s\n", i+1, c)
		}
	case cmd == "select":
		ref := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		if err := s.Workbook.Select(ref); err != nil {
			return err
		}
		return s.printSelection()
	case cmd == "selection":
		return s.printSelection()
	case cmd == "reload":
		if err := s.Workbook.Reload(); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Workbook reloaded")
	default:
		item, ok := menu.Find(s.Menu, line)
		if !ok {
			return fmt.Errorf("unknown command %q — type 'help' for commands", line)
		}
		return item.Run()
	}
	return nil
}

func (s *Session) printSelection() error {
	r, err := s.Workbook.ActiveSelection()
	if err != nil {
		return err
	}
	if r == nil {
		fmt.Fprintln(s.Out, "No range selected")
		return nil
	}
	d := r.Dimensions()
	fmt.Fprintf(s.Out, "Selected %s!%s (%d rows x %d columns)\n", r.SheetName(), r.Label(), d.Rows, d.Columns)
	return nil
}

// Complete returns tab-completion candidates for the given input.
func (s *Session) Complete(input string) []string {
	prefix := strings.ToLower(strings.TrimSpace(input))
	var matches []string
	for _, c := range s.commands() {
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}

func (s *Session) commands() []string {
	cmds := make([]string, 0, len(s.Menu.Items)+7)
	for _, it := range s.Menu.Items {
		cmds = append(cmds, it.Command)
	}
	return append(cmds, "menu", "select", "selection", "reload", "history", "help", "exit")
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.Out, "Export commands:")
	for i, it := range s.Menu.Items {
		fmt.Fprintf(s.Out, "  %d | %-9s — %s\n", i+1, it.Command, it.Label)
	}
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "Session commands:")
	fmt.Fprintln(s.Out, "  menu             — show the export menu")
	fmt.Fprintln(s.Out, "  select <ref>     — select a range, e.g. Sheet1!B2:C3 (empty clears)")
	fmt.Fprintln(s.Out, "  selection        — show the current selection")
	fmt.Fprintln(s.Out, "  reload           — re-read the workbook from disk")
	fmt.Fprintln(s.Out, "  history          — show command history")
	fmt.Fprintln(s.Out, "  exit             — end the session")
}

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, c := range s.commands() {
		items = append(items, readline.PcItem(c))
	}
	return items
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
