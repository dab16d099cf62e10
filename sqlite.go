// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite is a typed binding over the SQLite C API.
//
// A Conn owns one native connection and every Stmt prepared from it.
// Statements are prepared once, bound by position or by name, stepped,
// and read column by column:
//
//	conn, err := sqlite.CreateNewOrOpenExistingDB(path)
//	if err != nil {
//		// handle err
//	}
//	defer conn.Close()
//	stmt, err := conn.Prepare("SELECT name FROM users WHERE id = :id;")
//	if err != nil {
//		// handle err
//	}
//	stmt.BindInt64Name(":id", 7)
//	for {
//		row, err := stmt.TryNewRowStep()
//		if err != nil || !row {
//			break
//		}
//		name, _ := stmt.ColumnString(0)
//	}
//
// # Threads
//
// A Conn and its statements must only be used by one goroutine at a
// time. Concurrent use of one native connection corrupts the database.
// The sqlitepool package hands out whole connections to concurrent
// callers.
//
// # Busy
//
// Step reports a lock it could not acquire as StepBusy, not as an
// error. Nothing in this package retries; the busy timeout set by
// SetBusyTimeout is the only wait.
//
// # Binding Time
//
// SQLite has no time datatype. BindTime and ColumnTime take a
// DateTimeFormat choosing between ISO-8601 text, a Julian day REAL
// computed the way SQLite's own date functions do, and Unix seconds.
//
// # Backends
//
// The native library is Lib. With cgo it is cgosqlite, linked against
// libsqlite3. Without cgo on linux and darwin it is puregosqlite, which
// loads libsqlite3 at run time.
package sqlite

import (
	"errors"

	"github.com/tailscale/sqlitebind/sqliteh"
)

// Lib is the native SQLite used by every Conn.
// It is set at init time for the build; replace it only before the first
// connection is opened.
var Lib sqliteh.Library = missingLibrary{err: errors.New("sqlite: no native library in this build")}

// LibVersion reports the version string of the linked SQLite.
func LibVersion() string { return Lib.LibVersion() }

// missingLibrary is Lib when no backend could be linked or loaded.
type missingLibrary struct {
	err error
}

func (m missingLibrary) Open([]byte, sqliteh.OpenFlags, []byte) (sqliteh.DB, error) {
	return nil, m.err
}
func (m missingLibrary) ErrStr(code sqliteh.Code) string      { return code.String() }
func (m missingLibrary) LibVersion() string                   { return "" }
func (m missingLibrary) SetLogCallback(sqliteh.LogFunc) error { return m.err }
