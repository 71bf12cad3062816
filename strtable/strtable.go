// Package strtable reads and writes PokeMMO string-table XML files. The
// files are format-sensitive: the consuming client rejects anything that is
// not byte-identical outside the translated texts, so parsing keeps every
// byte that is not the inner text of a recognized string entry as opaque
// structural metadata, re-emitted verbatim in document order.
package strtable

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// openPattern matches an entry opening tag, capturing its key. Further
// attributes after id are kept byte-exact but not interpreted.
var openPattern = regexp.MustCompile(`<string\s+id="([^"]+)"[^>]*>`)

const closeTag = "</string>"

// rootPattern checks that the document starts with an element, after the
// XML declaration and leading comments.
var rootPattern = regexp.MustCompile(`^<[A-Za-z]`)

// ParseError reports a malformed string-table file. The file it names is
// skipped entirely; nothing is ever partially written.
type ParseError struct {
	File string
	Key  string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s: entry %q: %s", e.File, e.Key, e.Msg)
}

// Entry is one translatable string. Text is the current inner text; the
// applier replaces it in place. The surrounding tags stay byte-exact.
type Entry struct {
	Key  string
	Text string
}

// chunk is one span of the document: verbatim bytes, or an entry whose
// tags are verbatim and whose text is replaceable.
type chunk struct {
	raw   string
	entry *Entry
	open  string
	close string
}

// File is a parsed string table: ordered entries plus everything between
// them, preserved for byte-exact re-emission.
type File struct {
	name    string
	chunks  []chunk
	entries []*Entry
}

// Name returns the file name Parse was given.
func (f *File) Name() string {
	return f.name
}

// Entries returns the translatable entries in document order. The slice
// items are live: editing an entry's Text changes Marshal output.
func (f *File) Entries() []*Entry {
	return f.entries
}

// Parse reads a string-table document. name labels errors, usually the file
// base name. Self-closing string tags carry no text and stay structural.
func Parse(name string, data []byte) (*File, error) {
	content := string(data)

	if err := checkRoot(name, content); err != nil {
		return nil, err
	}

	f := &File{name: name}
	last := 0
	pos := 0
	for {
		loc := openPattern.FindStringSubmatchIndex(content[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		openEnd := pos + loc[1]
		key := content[pos+loc[2] : pos+loc[3]]

		open := content[start:openEnd]
		if strings.HasSuffix(open, "/>") {
			pos = openEnd
			continue
		}

		rel := strings.Index(content[openEnd:], closeTag)
		if rel < 0 {
			return nil, &ParseError{File: name, Key: key, Msg: "unterminated entry"}
		}

		e := &Entry{Key: key, Text: content[openEnd : openEnd+rel]}
		if _, err := Segments(e.Text); errors.Is(err, ErrUnterminatedToken) {
			return nil, &ParseError{File: name, Key: key, Msg: "unterminated control token"}
		}

		f.addRaw(content[last:start])
		f.chunks = append(f.chunks, chunk{entry: e, open: open, close: closeTag})
		f.entries = append(f.entries, e)

		last = openEnd + rel + len(closeTag)
		pos = last
	}
	f.addRaw(content[last:])
	return f, nil
}

// ParseFile reads and parses one file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading string table: %w", err)
	}
	return Parse(filepath.Base(path), data)
}

func (f *File) addRaw(raw string) {
	if raw != "" {
		f.chunks = append(f.chunks, chunk{raw: raw})
	}
}

func checkRoot(name, content string) error {
	stripped := content
	for {
		stripped = strings.TrimLeft(stripped, " \t\r\n")
		switch {
		case strings.HasPrefix(stripped, "<?"):
			end := strings.Index(stripped, "?>")
			if end < 0 {
				return &ParseError{File: name, Msg: "unterminated XML declaration"}
			}
			stripped = stripped[end+2:]
		case strings.HasPrefix(stripped, "<!--"):
			end := strings.Index(stripped, "-->")
			if end < 0 {
				return &ParseError{File: name, Msg: "unterminated comment"}
			}
			stripped = stripped[end+3:]
		default:
			if !rootPattern.MatchString(stripped) {
				return &ParseError{File: name, Msg: "unknown root structure"}
			}
			return nil
		}
	}
}

// AppendBlock inserts content, followed by a newline, immediately before
// the document's last closing tag. The content is emitted verbatim; it is
// never parsed as entries.
func (f *File) AppendBlock(content string) error {
	for i := len(f.chunks) - 1; i >= 0; i-- {
		c := &f.chunks[i]
		if c.entry != nil {
			continue
		}
		idx := strings.LastIndex(c.raw, "</")
		if idx < 0 {
			continue
		}
		c.raw = c.raw[:idx] + content + "\n" + c.raw[idx:]
		return nil
	}
	return &ParseError{File: f.name, Msg: "no closing tag to append block before"}
}

// Marshal re-emits the document. Every byte outside entry texts is the
// original byte.
func (f *File) Marshal() []byte {
	var b strings.Builder
	for _, c := range f.chunks {
		if c.entry == nil {
			b.WriteString(c.raw)
			continue
		}
		b.WriteString(c.open)
		b.WriteString(c.entry.Text)
		b.WriteString(c.close)
	}
	return []byte(b.String())
}

// WriteFile writes the document to path, creating parent directories.
func (f *File) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, f.Marshal(), 0o644); err != nil {
		return fmt.Errorf("writing string table: %w", err)
	}
	return nil
}
