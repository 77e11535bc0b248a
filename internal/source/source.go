// Package source turns command-line inputs into plain text documents.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/term"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// Stdin is the argument that selects standard input.
const Stdin = "-"

// ErrNoMatch is returned when a glob matches no files.
var ErrNoMatch = errors.New("no files match")

// Document is one decoded input.
type Document struct {
	Name string
	Text string
}

// Expand resolves globs (including "**") into file paths. Plain paths and
// "-" pass through unchanged. Duplicates are dropped, first one wins.
func Expand(args []string) ([]string, error) {
	seen := make(map[string]bool, len(args))
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		if arg == Stdin || !hasMeta(arg) {
			add(arg)
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: %w", arg, ErrNoMatch)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as UTF-8. A byte order mark selects UTF-8 or UTF-16;
// other input that is not valid UTF-8 is read as Windows-1252.
func Decode(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return decodeWith(xunicode.UTF16(xunicode.LittleEndian, xunicode.ExpectBOM).NewDecoder().Bytes, data)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return decodeWith(xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM).NewDecoder().Bytes, data)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return decodeWith(charmap.Windows1252.NewDecoder().Bytes, data)
}

func decodeWith(decode func([]byte) ([]byte, error), data []byte) (string, error) {
	out, err := decode(data)
	if err != nil {
		return "", fmt.Errorf("decode input: %w", err)
	}
	return string(out), nil
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	}
	return false
}

// ReadFile reads and decodes one file. Markdown is reduced to prose when
// markdown is set or the extension says so.
func ReadFile(path string, markdown bool) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return fromBytes(path, data, markdown || IsMarkdown(path))
}

// ReadReader reads and decodes everything from r.
func ReadReader(name string, r io.Reader, markdown bool) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", name, err)
	}
	return fromBytes(name, data, markdown)
}

func fromBytes(name string, data []byte, markdown bool) (Document, error) {
	text, err := Decode(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", name, err)
	}
	if markdown {
		text = MarkdownText([]byte(text))
	}
	return Document{Name: name, Text: text}, nil
}

// Collect expands args and reads every input. No args reads stdin.
func Collect(args []string, stdin io.Reader, markdown bool) ([]Document, error) {
	if len(args) == 0 {
		args = []string{Stdin}
	}
	paths, err := Expand(args)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		var doc Document
		if p == Stdin {
			doc, err = ReadReader("stdin", stdin, markdown)
		} else {
			doc, err = ReadFile(p, markdown)
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// StdinIsTerminal reports whether stdin is an interactive terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
