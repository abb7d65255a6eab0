package editor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amterp/palette/internal/util"
)

// Inserter places text at a cursor.
type Inserter interface {
	Insert(text string) error
}

// Position is a 1-based cursor position. Column counts runes, not bytes.
type Position struct {
	Line   int
	Column int
}

// FileInserter inserts text into a file at a fixed position.
// Positions past the end of a line or of the file are clamped to that end;
// values below 1 are treated as 1.
type FileInserter struct {
	Path string
	At   Position
}

// Insert rewrites the file with text inserted verbatim at the position.
// The file must exist; its permissions are kept.
func (f *FileInserter) Insert(text string) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return err
	}

	updated := InsertAt(string(data), f.At, text)

	mode := util.FileMode(f.Path, 0644)
	if err := util.WriteFileAtomic(f.Path, []byte(updated), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Path, err)
	}
	return nil
}

// InsertAt returns content with text inserted at pos.
func InsertAt(content string, pos Position, text string) string {
	lines := strings.SplitAfter(content, "\n")

	line := max(pos.Line, 1) - 1
	if line >= len(lines) {
		line = len(lines) - 1
	}

	current := lines[line]
	body, ending := splitLineEnding(current)

	runes := []rune(body)
	col := min(max(pos.Column, 1)-1, len(runes))

	lines[line] = string(runes[:col]) + text + string(runes[col:]) + ending
	return strings.Join(lines, "")
}

func splitLineEnding(line string) (body, ending string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}

// WriterInserter writes the text followed by a newline, for piping into
// another tool.
type WriterInserter struct {
	W io.Writer
}

// StdoutInserter returns an Inserter that prints to standard output.
func StdoutInserter() *WriterInserter {
	return &WriterInserter{W: os.Stdout}
}

func (w *WriterInserter) Insert(text string) error {
	_, err := fmt.Fprintln(w.W, text)
	return err
}
