package sqlitepool

// This file contains bridging functions designed to let users of
// database/sql move to sqlitepool without changing the semantics
// of their code. Values are bound and scanned with the typed
// sqlite.Stmt methods, so a column must hold the type its
// destination asks for.

import (
	sqlpkg "database/sql"
	"database/sql/driver"
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"time"

	sqlite "github.com/tailscale/sqlitebind"
	"github.com/tailscale/sqlitebind/sqliteh"
)

// Exec is like database/sql.Conn.Exec.
// Only use this for one-off/rare queries.
// For normal queries, see the Exec method on Lease.
func Exec(c *sqlite.Conn, sql string, args ...any) error {
	stmt, err := c.Prepare(sql)
	if err != nil {
		return fmt.Errorf("Exec: %w", err)
	}
	defer stmt.Close()
	bindAll(stmt, args...)
	return stmt.DoneStep()
}

// QueryRow is like database/sql.Conn.QueryRow.
// Only use this for one-off/rare queries.
// For normal queries, see the methods on Lease.
func QueryRow(c *sqlite.Conn, sql string, args ...any) *Row {
	stmt, err := c.Prepare(sql)
	if err != nil {
		return &Row{err: fmt.Errorf("QueryRow: %w", err)}
	}
	return queryRow(stmt, true, args...)
}

// Query is like database/sql.Conn.Query.
// Only use this for one-off/rare queries.
// For normal queries, see the methods on Lease.
func Query(c *sqlite.Conn, sql string, args ...any) (*Rows, error) {
	stmt, err := c.Prepare(sql)
	if err != nil {
		return nil, fmt.Errorf("Query: %w", err)
	}
	bindAll(stmt, args...)
	return &Rows{stmt: stmt, oneOff: true}, nil
}

// Exec runs the cached statement k to completion.
func (l *Lease[K]) Exec(k K, args ...any) error {
	stmt := l.Stmt(k)
	defer resetAndClear(stmt)
	bindAll(stmt, args...)
	return stmt.DoneStep()
}

// QueryRow runs the cached statement k and returns its first row.
func (l *Lease[K]) QueryRow(k K, args ...any) *Row {
	return queryRow(l.Stmt(k), false, args...)
}

// Query runs the cached statement k.
// The statement is busy until Rows.Close.
func (l *Lease[K]) Query(k K, args ...any) (*Rows, error) {
	stmt := l.Stmt(k)
	bindAll(stmt, args...)
	return &Rows{stmt: stmt}, nil
}

func queryRow(stmt *sqlite.Stmt, oneOff bool, args ...any) *Row {
	done := func() {
		if oneOff {
			stmt.Close()
		} else {
			resetAndClear(stmt)
		}
	}
	bindAll(stmt, args...)
	row, err := stmt.TryNewRowStep()
	if err != nil {
		done()
		return &Row{err: fmt.Errorf("QueryRow: %w", err)}
	}
	if !row {
		done()
		return &Row{err: sqlpkg.ErrNoRows}
	}
	return &Row{stmt: stmt, oneOff: oneOff}
}

func resetAndClear(stmt *sqlite.Stmt) error {
	err := stmt.Reset()
	stmt.ClearBindings()
	return err
}

// Rows is like database/sql.Rows.
type Rows struct {
	stmt   *sqlite.Stmt
	err    error
	oneOff bool
}

func (rs *Rows) Next() bool {
	if rs.err != nil || rs.stmt == nil {
		return false
	}
	row, err := rs.stmt.TryNewRowStep()
	if err != nil {
		rs.err = fmt.Errorf("Rows.Next: %w", err)
		return false
	}
	return row
}

func (rs *Rows) Err() error {
	return rs.err
}

func (rs *Rows) Scan(dest ...any) error {
	if rs.err != nil {
		return rs.err
	}
	return scanAll(rs.stmt, dest...)
}

func (rs *Rows) Close() error {
	if rs.stmt == nil {
		return nil
	}
	var err error
	if rs.oneOff {
		err = rs.stmt.Close()
	} else if err = resetAndClear(rs.stmt); rs.err != nil {
		// Reset repeats the step error Next already reported.
		err = nil
	}
	rs.stmt = nil
	if err != nil {
		return fmt.Errorf("Rows.Close: %w", err)
	}
	return nil
}

// Row is like database/sql.Row.
type Row struct {
	stmt   *sqlite.Stmt
	err    error
	oneOff bool
}

func (r *Row) Err() error {
	return r.err
}

func (r *Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.stmt == nil {
		return errors.New("Row.Scan: called twice")
	}
	err := scanAll(r.stmt, dest...)
	if r.oneOff {
		r.stmt.Close()
	} else {
		resetAndClear(r.stmt)
	}
	r.stmt = nil
	return err
}

// columnValue reads column i as whatever type it holds.
func columnValue(stmt *sqlite.Stmt, i int) (any, error) {
	switch stmt.ColumnType(i) {
	case sqliteh.SQLITE_INTEGER:
		return stmt.ColumnInt64(i)
	case sqliteh.SQLITE_FLOAT:
		return stmt.ColumnFloat64(i)
	case sqliteh.SQLITE_TEXT:
		return stmt.ColumnString(i)
	case sqliteh.SQLITE_BLOB:
		return stmt.ColumnBlob(i)
	}
	return nil, nil
}

// columnBytes reads a TEXT or BLOB column as bytes. NULL is nil.
func columnBytes(stmt *sqlite.Stmt, i int) ([]byte, error) {
	if stmt.ColumnType(i) == sqliteh.SQLITE_TEXT {
		s, err := stmt.ColumnString(i)
		return []byte(s), err
	}
	b, _, err := stmt.ColumnNullableBlob(i)
	return b, err
}

// columnTime reads column i in whichever format its storage class implies.
func columnTime(stmt *sqlite.Stmt, i int) (time.Time, error) {
	switch stmt.ColumnType(i) {
	case sqliteh.SQLITE_FLOAT:
		return stmt.ColumnTime(i, sqlite.JulianDateReal)
	case sqliteh.SQLITE_INTEGER:
		return stmt.ColumnTime(i, sqlite.UnixTimeInteger)
	}
	return stmt.ColumnTime(i, sqlite.ISO8601Text)
}

// scanAll mimics (some of) database/sql's scanning logic.
func scanAll(stmt *sqlite.Stmt, dest ...any) error {
	for i := range dest {
		if err := scan(stmt, i, dest[i]); err != nil {
			return fmt.Errorf("sqlitepool.scan:%d: %w", i, err)
		}
	}
	return nil
}

func scan(stmt *sqlite.Stmt, i int, dest any) (err error) {
	switch d := dest.(type) {
	case sqlpkg.Scanner:
		v, err := columnValue(stmt, i)
		if err != nil {
			return err
		}
		return d.Scan(v)
	case *any:
		*d, err = columnValue(stmt, i)
		return err
	case *string:
		*d, err = stmt.ColumnString(i)
		return err
	case *[]byte:
		*d, err = columnBytes(stmt, i)
		return err
	case *sqlpkg.RawBytes:
		*d, err = columnBytes(stmt, i)
		return err
	case *time.Time:
		*d, err = columnTime(stmt, i)
		return err
	case *int64:
		*d, err = stmt.ColumnInt64(i)
		return err
	case *int32:
		*d, err = stmt.ColumnInt32(i)
		return err
	case *float64:
		*d, err = stmt.ColumnFloat64(i)
		return err
	}

	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("destination %T is not a non-nil pointer", dest)
	}
	elem := v.Elem()
	switch elem.Kind() {
	case reflect.Bool:
		n, err := stmt.ColumnInt64(i)
		if err != nil {
			return err
		}
		elem.SetBool(n != 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := stmt.ColumnInt64(i)
		if err != nil {
			return err
		}
		if elem.OverflowInt(n) {
			return &sqlite.OverflowError{Col: i, Value: n}
		}
		elem.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := stmt.ColumnInt64(i)
		if err != nil {
			return err
		}
		if n < 0 || elem.OverflowUint(uint64(n)) {
			return &sqlite.OverflowError{Col: i, Value: n}
		}
		elem.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		var f float64
		if stmt.ColumnType(i) == sqliteh.SQLITE_INTEGER {
			n, _ := stmt.ColumnInt64(i)
			f = float64(n)
		} else if f, err = stmt.ColumnFloat64(i); err != nil {
			return err
		}
		elem.SetFloat(f)
	case reflect.String:
		s, err := stmt.ColumnString(i)
		if err != nil {
			return err
		}
		elem.SetString(s)
	default:
		return fmt.Errorf("cannot handle destination kind %v (%T)", elem.Kind(), dest)
	}
	return nil
}

func bindAll(stmt *sqlite.Stmt, args ...any) {
	for i, arg := range args {
		if err := bind(stmt, i+1, arg); err != nil {
			// A bind error here is ~always a program error, not
			// something recoverable, and the panic's stack trace
			// points at the query that went wrong.
			panic(err)
		}
	}
}

// bind binds v to the parameter at ordinal.
func bind(s *sqlite.Stmt, ordinal int, v any) error {
	// Start with obvious types, including time.Time before TextMarshaler.
	found, err := bindBasic(s, ordinal, v)
	if err != nil {
		return err
	} else if found {
		return nil
	}

	if m, _ := v.(driver.Valuer); m != nil {
		var err error
		v, err = m.Value()
		if err != nil {
			return fmt.Errorf("sqlitepool.bind:%d: bad driver.Value: %w", ordinal, err)
		}
		if found, err := bindBasic(s, ordinal, v); found || err != nil {
			return err
		}
	}

	if m, _ := v.(encoding.TextMarshaler); m != nil {
		b, err := m.MarshalText()
		if err != nil {
			return fmt.Errorf("sqlitepool.bind:%d: cannot marshal %T: %w", ordinal, v, err)
		}
		return s.BindTextBytes(ordinal, b)
	}

	// Look for named basic types or other convertible types.
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return s.BindNull(ordinal)
		}
		val = val.Elem()
	}
	switch val.Kind() {
	case reflect.Bool:
		b := int64(0)
		if val.Bool() {
			b = 1
		}
		return s.BindInt64(ordinal, b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return s.BindInt64(ordinal, val.Int())
	case reflect.Uint, reflect.Uint64:
		return fmt.Errorf("sqlitepool.bind:%d: sqlite does not support uint64 (try a string or TextMarshaler)", ordinal)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return s.BindInt64(ordinal, int64(val.Uint()))
	case reflect.Float32, reflect.Float64:
		return s.BindFloat64(ordinal, val.Float())
	case reflect.String:
		return s.BindText(ordinal, val.String())
	}

	return fmt.Errorf("sqlitepool.bind:%d: unknown value type %T (try a string or TextMarshaler)", ordinal, v)
}

func bindBasic(s *sqlite.Stmt, ordinal int, v any) (found bool, err error) {
	switch v := v.(type) {
	case nil:
		return true, s.BindNull(ordinal)
	case string:
		return true, s.BindText(ordinal, v)
	case int:
		return true, s.BindInt64(ordinal, int64(v))
	case int64:
		return true, s.BindInt64(ordinal, v)
	case int32:
		return true, s.BindInt32(ordinal, v)
	case float64:
		return true, s.BindFloat64(ordinal, v)
	case bool:
		b := int64(0)
		if v {
			b = 1
		}
		return true, s.BindInt64(ordinal, b)
	case []byte:
		return true, s.BindBlob(ordinal, v)
	case time.Time:
		return true, s.BindTime(ordinal, v, sqlite.ISO8601Text)
	default:
		return false, nil
	}
}
