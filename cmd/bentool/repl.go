package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
)

// commandNames lists completable words for the readline completer.
// Kept in sync with the commands registered in root.go's init.
var commandNames = []string{
	"dev", "lerandaddr", "ga_rpi", "ga_aem", "beacon", "scan",
	"bonding", "resolve_rpa", "track", "help", "?", "quit",
}

func newCompleter() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, len(commandNames))
	for i, name := range commandNames {
		items[i] = readline.PcItem(name)
	}
	return readline.NewPrefixCompleter(items...)
}

// runRepl is the interactive loop: readline-backed line editing, command
// tab completion, and persistent history, reproducing the reference's
// GNU-readline REPL with the Go ecosystem's equivalent. Each non-empty
// line is tokenized and re-dispatched through the same cobra command
// tree "single command on argv" mode uses.
func runRepl(root *cobra.Command) error {
	historyFile := ".bthistory"
	if app.eng != nil {
		historyFile = app.eng.Config.HistoryFile
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		AutoComplete:    newCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return &bonderr.DeviceError{Op: "open readline terminal", Err: err}
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args, tokErr := tokenize(line)
		if tokErr != nil {
			fmt.Fprintf(rl.Stderr(), "%s\n", tokErr)
			continue
		}
		if args[0] == "quit" {
			return nil
		}

		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			fmt.Fprintf(rl.Stderr(), "ERROR: %s\n", bonderr.FormatUserError(err))
		}
	}
}

// tokenize splits a REPL line on whitespace, honouring double-quoted
// substrings as single tokens, mirroring the reference's tokenizestr.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	started := false

	flush := func() {
		if started {
			tokens = append(tokens, cur.String())
			cur.Reset()
			started = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			started = true
		case (r == ' ' || r == '\t') && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()

	if inQuotes {
		return nil, fmt.Errorf("unterminated quote")
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return tokens, nil
}
