package core

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ActionRunner executes a post-download command on a file, from the directory holding this file
type ActionRunner interface {
	Run(ctx context.Context, dir, command, filename string) error
}

// ShellActions runs post-download commands with "sh -c '<command> <filename>'"
type ShellActions struct{}

// Run the command. The file name is quoted for the shell.
func (ShellActions) Run(ctx context.Context, dir, command, filename string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command+" "+shellQuote(filename)) // #nosec
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%q: %w", command, err)
		}
		return fmt.Errorf("%q: %w: %s", command, err, msg)
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
