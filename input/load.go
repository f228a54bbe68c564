package input

import (
	"os"
	"strings"
)

// Load reads path, normalizes CRLF to LF, tokenizes the directive
// language and assembles the Snippet/Program tables. If the file cannot
// be read it returns a nil Input and the read error; otherwise the
// returned Input is non-nil — check Valid() (or Errors) before using it.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadSource(path, string(data)), nil
}

// LoadSource parses already-read source text, bypassing the filesystem.
// Used directly by tests and by any caller that already has the bytes.
func LoadSource(path, source string) *Input {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	in := &Input{
		Path:  path,
		Lines: splitLines(normalized),
	}
	Parse(in)
	return in
}

// splitLines splits on "\n" the way strings.Split would, but drops a
// single trailing empty line produced by a final newline in the source —
// that line never carries a directive or code and would otherwise shift
// every "no trailing newline" file's line count by one relative to files
// that do end in a newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
