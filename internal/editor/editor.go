package editor

import (
	"os"
	"os/exec"
	"strings"
)

// Resolve returns the editor command to use.
// Order: $VISUAL > $EDITOR > vim
func Resolve() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vim"
}

// Open launches the editor on path, attached to the terminal, and waits for it.
// The editor command may carry arguments, e.g. "code --wait".
func Open(path string) error {
	return command(Resolve(), path).Run()
}

func command(editor, path string) *exec.Cmd {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		fields = []string{"vim"}
	}
	args := append(fields[1:], path)

	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}
