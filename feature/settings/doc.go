// Package settings implements the settings store of a server directory.
//
// The settings file is the key-value file the server reads on startup
// (server.properties by default). Its format belongs to the server, so this package
// never reformats it: comments, blank lines, unknown settings and lines it cannot make
// sense of are all carried through a load/save cycle unchanged, and only the values of
// settings that were actually modified are rewritten in place.
//
// # Components
//
//   - File: the parsed, ordered content with Get/Set and byte-exact rendering.
//   - Schema: the known settings with their kinds, defaults and constraints. Set
//     validates against it and stores canonical values (true/false, base-10 ints,
//     canonical choice spelling).
//   - Store: loads a file from a server directory (or the default template when there
//     is none) and saves it with write-to-temp-then-rename.
//
// # Errors
//
//   - ErrIO: the file could not be read or written.
//   - ErrParse (*ParseError): a line has an empty name or a name is repeated.
//   - ErrValidation (*ValidationError): a value does not fit its setting.
//
// Concurrent invocations against the same directory are not coordinated; the last
// writer wins.
package settings
