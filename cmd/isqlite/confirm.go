package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/mizuchilabs/go-isqlite/pkg/diff"
)

// errAborted marks a migration that was refused before ApplyDiff ever
// ran, distinct from migrate.ExecutionError (which marks one that failed
// partway through). Both map to exit code 2.
var errAborted = errors.New("isqlite: migration aborted")

// isDestructive reports whether ops contains a DropTable or DropColumn —
// the two operation kinds that discard data outright.
func isDestructive(ops []diff.Operation) bool {
	for _, op := range ops {
		switch op.(type) {
		case diff.DropTableOp, diff.DropColumnOp:
			return true
		}
	}
	return false
}

// confirmDestructive prompts for confirmation before applying a
// destructive change, grounded on the teacher's commands.go
// fmt.Scanln-based "yes/no" prompt. When stdout is not a terminal
// (piped output, a script, CI) there is no one to answer the prompt, so
// it fails closed instead of silently proceeding or silently hanging.
func confirmDestructive(ops []diff.Operation) error {
	if !isDestructive(ops) {
		return nil
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("%w: destructive changes require an interactive terminal to confirm", errAborted)
	}

	fmt.Print("This migration drops a table or column; data will be lost. Continue? (yes/no): ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("%w: reading confirmation: %v", errAborted, err)
	}
	response = strings.ToLower(strings.TrimSpace(response))
	if response != "yes" && response != "y" {
		return fmt.Errorf("%w: not confirmed", errAborted)
	}
	return nil
}
