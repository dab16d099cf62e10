package sqlite

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/tailscale/sqlitebind/sqliteh"
	"go4.org/mem"
)

// MemoryPath is the filename of a private, temporary in-memory database.
const MemoryPath = ":memory:"

// Conn is an open SQLite database connection.
//
// A Conn must only be used by one goroutine at a time.
type Conn struct {
	h      *connHandle
	path   string
	stmts  []*Stmt // live statements, in preparation order
	closed atomic.Bool
}

// CreateTemporaryInMemoryDB opens a new private in-memory database.
func CreateTemporaryInMemoryDB() (*Conn, error) {
	return OpenConn(MemoryPath, sqliteh.SQLITE_OPEN_READWRITE|sqliteh.SQLITE_OPEN_CREATE)
}

// OpenExistingDBReadOnly opens the database at path for reading.
// It fails if the file does not exist.
func OpenExistingDBReadOnly(path string) (*Conn, error) {
	return OpenConn(path, sqliteh.SQLITE_OPEN_READONLY)
}

// OpenExistingDB opens the database at path for reading and writing.
// It fails if the file does not exist.
func OpenExistingDB(path string) (*Conn, error) {
	return OpenConn(path, sqliteh.SQLITE_OPEN_READWRITE)
}

// CreateNewOrOpenExistingDB opens the database at path for reading and
// writing, creating it if needed.
func CreateNewOrOpenExistingDB(path string) (*Conn, error) {
	return OpenConn(path, sqliteh.SQLITE_OPEN_READWRITE|sqliteh.SQLITE_OPEN_CREATE)
}

// OpenConn is sqlite3_open_v2 with explicit flags, for URI filenames and
// other modes the named constructors do not cover.
// Extended result codes are always enabled on the new connection.
func OpenConn(path string, flags sqliteh.OpenFlags) (_ *Conn, err error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrInvalidArgument)
	}
	if strings.IndexByte(path, 0) >= 0 {
		return nil, fmt.Errorf("%w: database path contains NUL", ErrInvalidArgument)
	}
	initLog()

	db, err := Lib.Open(sqliteh.CString(path), flags, nil)
	h := &connHandle{db: db}
	defer func() {
		if err != nil {
			h.release()
		}
	}()
	if err != nil {
		if ec, ok := err.(sqliteh.ErrCode); ok {
			// No connection context yet, so no message.
			return nil, &Error{
				Code:     sqliteh.Code(ec),
				CodeName: Lib.ErrStr(sqliteh.Code(ec)),
				Loc:      "Open",
			}
		}
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}
	if err := db.ExtendedResultCodes(true); err != nil {
		return nil, reserr(db, "Open", "", err)
	}
	return &Conn{h: h, path: path}, nil
}

// Path reports the filename the Conn was opened with.
func (c *Conn) Path() string { return c.path }

func (c *Conn) checkOpen(loc string) error {
	if c.closed.Load() {
		UsesAfterClose.Add(loc, 1)
		return ErrClosed
	}
	return nil
}

func (c *Conn) reserr(loc, sql string, err error) error {
	return reserr(c.h.db, loc, sql, err)
}

// SetBusyTimeout is sqlite3_busy_timeout.
// A non-positive ms turns the busy handler off.
func (c *Conn) SetBusyTimeout(ms int) error {
	if err := c.checkOpen("Conn.SetBusyTimeout"); err != nil {
		return err
	}
	return c.reserr("SetBusyTimeout", "", c.h.db.BusyTimeout(ms))
}

// Prepare compiles the single SQL command in sql.
// The returned Stmt is owned by c and is finalized by c.Close if the
// caller has not closed it first.
func (c *Conn) Prepare(sql string) (*Stmt, error) {
	return c.PrepareBytes(sqliteh.CString(sql))
}

// PrepareBytes is Prepare for SQL text the caller has already encoded.
// sql must end in a single NUL byte, as built by sqliteh.CString.
//
// If anything other than whitespace follows the first command, the
// compiled statement is finalized and a *MultipleStatementsError is
// returned.
func (c *Conn) PrepareBytes(sql []byte) (*Stmt, error) {
	if err := c.checkOpen("Conn.Prepare"); err != nil {
		return nil, err
	}
	if !sqliteh.IsCString(sql) {
		return nil, fmt.Errorf("%w: SQL text is not NUL-terminated", ErrInvalidArgument)
	}
	text := sql[:len(sql)-1]
	if mem.TrimSpace(mem.B(text)).Len() == 0 {
		return nil, fmt.Errorf("%w: empty SQL text", ErrInvalidArgument)
	}

	cstmt, tail, err := c.h.db.Prepare(sql, 0)
	if err != nil {
		return nil, c.reserr("Prepare", string(text), err)
	}
	if cstmt == nil {
		return nil, fmt.Errorf("%w: SQL text has no command: %q", ErrInvalidArgument, text)
	}
	h := &stmtHandle{stmt: cstmt}
	if tail < len(text) {
		if rem := text[tail:]; mem.TrimSpace(mem.B(rem)).Len() > 0 {
			h.release()
			return nil, &MultipleStatementsError{
				SQL:       string(text[:tail]),
				Remainder: string(rem),
			}
		}
	}
	s := &Stmt{
		conn: c,
		h:    h,
		sql:  string(text),
	}
	c.stmts = append(c.stmts, s)
	return s, nil
}

func (c *Conn) forget(s *Stmt) {
	c.stmts = slices.DeleteFunc(c.stmts, func(x *Stmt) bool { return x == s })
}

// ExecNonQuery prepares sql, steps it once expecting completion, and
// closes the statement.
func (c *Conn) ExecNonQuery(sql string) error {
	s, err := c.Prepare(sql)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.DoneStep()
}

// QueryScalarString runs a query that must produce exactly one row and
// returns its first column as text.
func (c *Conn) QueryScalarString(sql string) (string, error) {
	s, err := c.Prepare(sql)
	if err != nil {
		return "", err
	}
	defer s.Close()
	if err := s.NewRowStep(); err != nil {
		return "", err
	}
	v, err := s.ColumnString(0)
	if err != nil {
		return "", err
	}
	if err := s.DoneStep(); err != nil {
		return "", err
	}
	return v, nil
}

// PrepareNewRow prepares sql and steps it to its first row.
// If there is no row the statement is closed and an
// *UnexpectedStepError is returned.
func (c *Conn) PrepareNewRow(sql string) (_ *Stmt, err error) {
	s, err := c.Prepare(sql)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()
	if err := s.NewRowStep(); err != nil {
		return nil, err
	}
	return s, nil
}

// LastInsertRowID is sqlite3_last_insert_rowid.
func (c *Conn) LastInsertRowID() int64 {
	if c.checkOpen("Conn.LastInsertRowID") != nil {
		return 0
	}
	return c.h.db.LastInsertRowid()
}

// Changes is sqlite3_changes.
func (c *Conn) Changes() int {
	if c.checkOpen("Conn.Changes") != nil {
		return 0
	}
	return c.h.db.Changes()
}

// AutoCommit reports whether c is outside any transaction.
// It is sqlite3_get_autocommit.
func (c *Conn) AutoCommit() bool {
	if c.checkOpen("Conn.AutoCommit") != nil {
		return true
	}
	return c.h.db.AutoCommit()
}

// ExecScript executes a set of SQL commands in order.
// It stops on the first error. If the script opened a transaction that
// is still open at that point, it is rolled back.
// It is recommended you wrap your script in a BEGIN; ... COMMIT; block.
func (c *Conn) ExecScript(script string) error {
	if err := c.checkOpen("Conn.ExecScript"); err != nil {
		return err
	}
	if !c.h.db.AutoCommit() {
		return c.execScript(script)
	}
	err := c.execScript(script)
	if err != nil && !c.h.db.AutoCommit() {
		// The script's error is returned, not ROLLBACK's.
		c.ExecNonQuery("ROLLBACK;")
	}
	return err
}

func (c *Conn) execScript(script string) error {
	buf := sqliteh.CString(script)
	for off := 0; ; {
		rest := buf[off:]
		if mem.TrimSpace(mem.B(rest[:len(rest)-1])).Len() == 0 {
			return nil
		}
		cstmt, tail, err := c.h.db.Prepare(rest, 0)
		if err != nil {
			return c.reserr("ExecScript", strings.TrimSpace(string(rest[:len(rest)-1])), err)
		}
		if cstmt == nil {
			// Only comments remain.
			return nil
		}
		off += tail
		h := &stmtHandle{stmt: cstmt}
		code, err := cstmt.Step()
		for err == nil && code == sqliteh.SQLITE_ROW {
			code, err = cstmt.Step()
		}
		if err != nil {
			err = c.reserr("ExecScript", strings.TrimSpace(cstmt.SQL()), err)
		}
		h.release()
		if err != nil {
			return err
		}
	}
}

// Close finalizes every statement prepared on c that is still open,
// then closes the connection. Calling Close more than once is safe.
//
// Close does not report failures from sqlite3_finalize or sqlite3_close.
func (c *Conn) Close() error {
	// Don't double-close
	if !c.closed.CompareAndSwap(false, true) {
		UsesAfterClose.Add("Conn.Close", 1)
		return nil
	}
	for _, s := range c.stmts {
		s.h.release()
	}
	c.stmts = nil
	c.h.release()
	return nil
}
