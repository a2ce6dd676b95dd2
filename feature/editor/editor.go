package editor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"msc/feature/settings"

	"go.uber.org/zap"
)

// Commands recognised at any prompt.
const (
	// CmdDone keeps every remaining setting as it is.
	CmdDone = "!done"
	// CmdAbort discards everything entered in this session.
	CmdAbort = "!abort"
)

// ErrAborted is returned by Run when the session was abandoned; nothing was applied.
var ErrAborted = errors.New("settings editing aborted")

// LineReader is the source of answers, one line per prompt.
type LineReader interface {
	ReadLine() (string, error)
}

type bufferedLines struct {
	r *bufio.Reader
}

// NewLineReader reads answers from r. Sharing r with later consumers of the same
// stream loses no typed-ahead input.
func NewLineReader(r *bufio.Reader) LineReader {
	return bufferedLines{r: r}
}

func (b bufferedLines) ReadLine() (string, error) {
	line, err := b.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Change records one setting modified in a session.
type Change struct {
	Name string
	Old  string
	New  string
}

// Result is the outcome of a completed session.
type Result struct {
	Changes []Change
}

// Empty reports that the session changed nothing, so saving may be skipped.
func (r *Result) Empty() bool {
	return len(r.Changes) == 0
}

// Document is a set of named values an editor session changes.
// Set is only called with values already accepted by the prompted setting.
type Document interface {
	Get(name string) (string, bool)
	Set(name, value string) error
}

type section struct {
	title  string
	schema []settings.Setting
	doc    Document
}

// Editor walks the setting schema, asking to keep or replace each value.
type Editor struct {
	in       LineReader
	out      io.Writer
	logger   *zap.Logger
	schema   []settings.Setting
	sections []section
	hints    bool
}

// NewEditor creates an editor prompting on out and reading answers from in.
func NewEditor(in LineReader, out io.Writer, logger *zap.Logger) *Editor {
	return &Editor{
		in:     in,
		out:    out,
		logger: logger,
		schema: settings.Schema,
	}
}

// SetSchema replaces the settings walked by Run.
func (e *Editor) SetSchema(schema []settings.Setting) {
	e.schema = schema
}

// AddSection adds schema, answered into doc, to the prompts that follow the settings file.
func (e *Editor) AddSection(title string, schema []settings.Setting, doc Document) {
	e.sections = append(e.sections, section{title: title, schema: schema, doc: doc})
}

// SetHints enables the usage banner and setting descriptions, for terminals.
func (e *Editor) SetHints(enabled bool) {
	e.hints = enabled
}

type pending struct {
	doc    Document
	change Change
}

// Run prompts for every schema setting of f in order, then for every added section.
//
// An empty answer keeps the current value. A value the setting rejects is reported
// and the same setting is asked again. Answers are only applied to f and the section
// documents once the session completes; on ErrAborted (or end of input) nothing is
// touched.
func (e *Editor) Run(f *settings.File) (*Result, error) {
	sections := append([]section{{schema: e.schema, doc: f}}, e.sections...)
	var staged []pending

	if e.hints {
		fmt.Fprintf(e.out, "Press Enter to keep a value, %s to keep all remaining, %s to quit without saving.\n", CmdDone, CmdAbort)
	}

prompts:
	for _, sec := range sections {
		if e.hints && sec.title != "" {
			fmt.Fprintf(e.out, "\n%s\n", sec.title)
		}

		for i := 0; i < len(sec.schema); i++ {
			s := sec.schema[i]
			current, present := sec.doc.Get(s.Name)
			shown := current
			if !present {
				shown = s.Default
			}

			if e.hints && s.Description != "" {
				fmt.Fprintf(e.out, "# %s\n", s.Description)
			}
			fmt.Fprintf(e.out, "%s (%s) [%s]: ", s.Name, s.Hint(), shown)

			answer, err := e.in.ReadLine()
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(e.out)
				return nil, ErrAborted
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read answer: %w", err)
			}

			switch answer = strings.TrimSpace(answer); answer {
			case "":
				continue
			case CmdDone:
				break prompts
			case CmdAbort:
				return nil, ErrAborted
			}

			value, err := s.Normalize(answer)
			if err != nil {
				if errors.Is(err, settings.ErrValidation) {
					fmt.Fprintf(e.out, "  %v\n", err)
					i--
					continue
				}
				return nil, err
			}
			if present && value == current {
				continue
			}
			staged = append(staged, pending{doc: sec.doc, change: Change{Name: s.Name, Old: current, New: value}})
		}
	}

	var changes []Change
	for _, p := range staged {
		c := p.change
		if err := p.doc.Set(c.Name, c.New); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", c.Name, err)
		}
		changes = append(changes, c)
		e.logger.Debug("Setting changed", zap.String("name", c.Name), zap.String("old", c.Old), zap.String("new", c.New))
	}

	return &Result{Changes: changes}, nil
}
