// Package cgosqlite is a low-level interface onto SQLite using cgo.
//
// It implements the sqliteh.Library, sqliteh.DB and sqliteh.Stmt
// interfaces against the system libsqlite3, with as few opinions as
// possible. Strings go in as NUL-terminated []byte built by
// sqliteh.CString and come back either copied or as mem.RO views of
// engine memory.
//
// Users of this package do not need to use any cgo.
package cgosqlite
