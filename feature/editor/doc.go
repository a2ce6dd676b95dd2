// Package editor implements the interactive settings session run before a launch.
//
// The editor walks settings.Schema in order and shows each setting with its current
// value, then the schema of every section added with AddSection (the launch options).
// For every prompt the user either presses Enter to keep the value or types a
// replacement, which is validated by Setting.Normalize; a rejected value is explained
// and asked for again instead of ending the session.
//
// Answers come from a LineReader, so the same loop serves a terminal, a pipe, or a
// scripted test. Two commands are accepted at any prompt:
//
//   - !done  keeps all remaining settings and finishes the session.
//   - !abort discards every answer of the session (as does end of input).
//
// # Usage
//
//	in := bufio.NewReader(os.Stdin)
//	ed := editor.NewEditor(editor.NewLineReader(in), os.Stdout, logg)
//	ed.AddSection("Launch options", launcher.OptionSchema, &opts)
//	res, err := ed.Run(file)
//	if errors.Is(err, editor.ErrAborted) {
//	    return nil // file untouched
//	}
//	if !res.Empty() {
//	    err = store.Save(ctx, file, dir)
//	}
package editor
