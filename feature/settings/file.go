package settings

import (
	"fmt"
	"strings"
)

type lineKind int

const (
	// lineOpaque is a blank line, a comment, or text without a separator.
	// It is written back exactly as read.
	lineOpaque lineKind = iota
	lineSetting
)

type line struct {
	kind lineKind
	// raw is the line text without its terminator.
	raw string
	// eol is "\n", "\r\n", or "" for a last line without a terminator.
	eol string
	key string
	val string
	// lead is the text of raw up to where the value starts.
	lead string
}

// Entry is a setting as it appears in a file.
type Entry struct {
	Name  string
	Value string
}

// File is an in-memory settings file.
//
// Every line is kept, including comments, blanks and unparseable text, so rendering
// an unmodified File reproduces its input byte for byte.
type File struct {
	lines   []line
	index   map[string]int
	eol     string
	isNew   bool
	changed bool
}

// Parse reads settings file content.
//
// A line whose first non-blank character is '#' or '!' is a comment. Other non-blank
// lines are split on the first '=' or ':', or on the first blank when the name would
// otherwise contain one; lines with neither '=' nor ':' are kept as opaque text.
// A line with an empty name or a repeated name is a *ParseError.
func Parse(data []byte) (*File, error) {
	f := &File{index: make(map[string]int), eol: "\n"}
	eolSeen := false

	rest := string(data)
	for n := 1; len(rest) > 0; n++ {
		text, eol := rest, ""
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			text, eol, rest = rest[:i], "\n", rest[i+1:]
			if strings.HasSuffix(text, "\r") {
				text, eol = text[:len(text)-1], "\r\n"
			}
		} else {
			rest = ""
		}
		if eol != "" && !eolSeen {
			f.eol, eolSeen = eol, true
		}

		ln, reason := parseLine(text)
		if reason != "" {
			return nil, &ParseError{Line: n, Reason: reason}
		}
		ln.eol = eol
		if ln.kind == lineSetting {
			if prev, dup := f.index[ln.key]; dup {
				return nil, &ParseError{Line: n, Reason: fmt.Sprintf("duplicate setting %s (first defined on line %d)", ln.key, prev+1)}
			}
			f.index[ln.key] = len(f.lines)
		}
		f.lines = append(f.lines, ln)
	}

	return f, nil
}

// parseLine classifies one line. A non-empty reason means the line is malformed.
func parseLine(text string) (line, string) {
	trimmed := strings.TrimLeft(text, " \t\f")
	if trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
		return line{kind: lineOpaque, raw: text}, ""
	}

	sep := strings.IndexAny(text, "=:")
	if sep < 0 {
		return line{kind: lineOpaque, raw: text}, ""
	}

	key := strings.TrimSpace(text[:sep])
	if key == "" {
		return line{}, fmt.Sprintf("missing setting name before %q", text[sep])
	}
	if blank := strings.IndexAny(key, " \t\f"); blank >= 0 {
		// "name value:with:colons" separates on the blank.
		sep = len(text) - len(trimmed) + blank
		key = key[:blank]
	}

	start := sep + 1
	for start < len(text) && (text[start] == ' ' || text[start] == '\t' || text[start] == '\f') {
		start++
	}

	return line{
		kind: lineSetting,
		raw:  text,
		key:  key,
		val:  strings.TrimRight(text[start:], " \t\f"),
		lead: text[:start],
	}, ""
}

// Get returns the value of a setting present in the file.
func (f *File) Get(name string) (string, bool) {
	i, ok := f.index[name]
	if !ok {
		return "", false
	}
	return f.lines[i].val, true
}

// Set validates value for name and stores its canonical form.
//
// Setting a value equal to the current one is a no-op. A name not yet in the file is
// appended at the end. Only the in-memory File is modified.
func (f *File) Set(name, value string) error {
	value, err := normalize(name, value)
	if err != nil {
		return err
	}

	if i, ok := f.index[name]; ok {
		ln := &f.lines[i]
		if ln.val == value {
			return nil
		}
		ln.val = value
		ln.raw = ln.lead + value
		f.changed = true
		return nil
	}

	eol := f.eol
	if n := len(f.lines); n > 0 && f.lines[n-1].eol == "" {
		// Keep the file's "no final newline" shape by moving it to the new last line.
		f.lines[n-1].eol = f.eol
		eol = ""
	}
	f.index[name] = len(f.lines)
	f.lines = append(f.lines, line{
		kind: lineSetting,
		raw:  name + "=" + value,
		eol:  eol,
		key:  name,
		val:  value,
		lead: name + "=",
	})
	f.changed = true
	return nil
}

// Entries returns the settings in file order.
func (f *File) Entries() []Entry {
	entries := make([]Entry, 0, len(f.index))
	for _, ln := range f.lines {
		if ln.kind == lineSetting {
			entries = append(entries, Entry{Name: ln.key, Value: ln.val})
		}
	}
	return entries
}

// Bytes renders the file.
func (f *File) Bytes() []byte {
	var b strings.Builder
	for _, ln := range f.lines {
		b.WriteString(ln.raw)
		b.WriteString(ln.eol)
	}
	return []byte(b.String())
}

// Changed reports whether Set modified the file since it was loaded or saved.
func (f *File) Changed() bool { return f.changed }

// IsNew reports whether the file was synthesised from the default template and has
// not been written yet.
func (f *File) IsNew() bool { return f.isNew }

// NeedsSave reports whether the file has to be written before the server may start.
func (f *File) NeedsSave() bool { return f.isNew || f.changed }

func (f *File) markSaved() {
	f.isNew = false
	f.changed = false
}

// Default returns a new File holding every schema setting at its default value.
func Default() *File {
	var b strings.Builder
	b.WriteString("#Minecraft server properties\n")
	for _, s := range Schema {
		b.WriteString(s.Name)
		b.WriteString("=")
		b.WriteString(s.Default)
		b.WriteString("\n")
	}

	f, err := Parse([]byte(b.String()))
	if err != nil {
		panic("settings: default template does not parse: " + err.Error())
	}
	f.isNew = true
	return f
}
