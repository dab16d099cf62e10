package sqlite

import (
	"fmt"
	"time"

	"github.com/tailscale/sqlitebind/sqliteh"
)

// Stmt is a prepared statement.
//
// A Stmt belongs to the Conn that prepared it and reads that connection's
// error messages, but never closes it.
type Stmt struct {
	conn *Conn
	h    *stmtHandle
	sql  string

	buf     []byte // reused for text binds, copied by SQLite
	nameBuf []byte // reused for parameter names
}

// StepResult is the outcome of a successful Step.
type StepResult int

const (
	StepRow  StepResult = iota + 1 // a result row is available
	StepDone                       // the statement ran to completion
	StepBusy                       // a lock could not be acquired; step again or give up
)

func (r StepResult) String() string {
	switch r {
	case StepRow:
		return "StepRow"
	case StepDone:
		return "StepDone"
	case StepBusy:
		return "StepBusy"
	default:
		return fmt.Sprintf("StepResult(%d)", int(r))
	}
}

// SQL reports the text the statement was prepared from.
func (s *Stmt) SQL() string { return s.sql }

func (s *Stmt) checkOpen(loc string) error {
	if !s.h.valid() {
		UsesAfterClose.Add(loc, 1)
		return ErrClosed
	}
	return nil
}

func (s *Stmt) reserr(loc string, err error) error {
	return reserr(s.conn.h.db, loc, s.sql, err)
}

// Close finalizes the statement and removes it from its Conn.
// Calling Close more than once, or after the Conn is closed, is safe.
//
// A failing sqlite3_finalize only repeats the error of the last Step,
// so it is not reported.
func (s *Stmt) Close() error {
	if !s.h.valid() {
		if !s.conn.closed.Load() { // else finalized by Conn.Close
			UsesAfterClose.Add("Stmt.Close", 1)
		}
		return nil
	}
	s.conn.forget(s)
	s.h.release()
	return nil
}

// Step is sqlite3_step.
//
// SQLITE_ROW, SQLITE_DONE and any SQLITE_BUSY code are results, not
// errors. Every other code is returned as an *Error.
func (s *Stmt) Step() (StepResult, error) {
	if err := s.checkOpen("Stmt.Step"); err != nil {
		return 0, err
	}
	code, err := s.h.stmt.Step()
	switch {
	case code == sqliteh.SQLITE_ROW:
		return StepRow, nil
	case code == sqliteh.SQLITE_DONE:
		return StepDone, nil
	case code.Primary() == sqliteh.SQLITE_BUSY:
		return StepBusy, nil
	}
	if err == nil {
		err = sqliteh.ErrCode(code)
	}
	return 0, s.reserr("Step", err)
}

func (s *Stmt) stepWant(want StepResult) error {
	got, err := s.Step()
	if err != nil {
		return err
	}
	if got != want {
		return &UnexpectedStepError{Want: want, Got: got, SQL: s.sql}
	}
	return nil
}

// NewRowStep steps and requires a row.
func (s *Stmt) NewRowStep() error { return s.stepWant(StepRow) }

// DoneStep steps and requires completion.
func (s *Stmt) DoneStep() error { return s.stepWant(StepDone) }

// TryNewRowStep steps and reports whether a row is available.
// StepBusy is returned as an *UnexpectedStepError.
func (s *Stmt) TryNewRowStep() (bool, error) {
	got, err := s.Step()
	if err != nil {
		return false, err
	}
	switch got {
	case StepRow:
		return true, nil
	case StepDone:
		return false, nil
	}
	return false, &UnexpectedStepError{Want: StepRow, Got: got, SQL: s.sql}
}

// Reset is sqlite3_reset. Bound values are kept.
func (s *Stmt) Reset() error {
	if err := s.checkOpen("Stmt.Reset"); err != nil {
		return err
	}
	return s.reserr("Reset", s.h.stmt.Reset())
}

// ClearBindings is sqlite3_clear_bindings. Every parameter becomes NULL.
func (s *Stmt) ClearBindings() error {
	if err := s.checkOpen("Stmt.ClearBindings"); err != nil {
		return err
	}
	return s.reserr("ClearBindings", s.h.stmt.ClearBindings())
}

// BindParameterCount is sqlite3_bind_parameter_count.
func (s *Stmt) BindParameterCount() int {
	if s.checkOpen("Stmt.BindParameterCount") != nil {
		return 0
	}
	return s.h.stmt.BindParameterCount()
}

// BindParameterIndex returns the 1-based index of the named parameter,
// including its prefix (":id", "@id" or "$id"), or 0 if there is none.
func (s *Stmt) BindParameterIndex(name string) int {
	if s.checkOpen("Stmt.BindParameterIndex") != nil {
		return 0
	}
	s.nameBuf = sqliteh.AppendCString(s.nameBuf[:0], name)
	return s.h.stmt.BindParameterIndex(s.nameBuf)
}

func (s *Stmt) bindErr(i int, kind string, err error) error {
	if err == nil {
		return nil
	}
	return s.reserr(fmt.Sprintf("Bind:%d:%s", i, kind), err)
}

func (s *Stmt) paramIndex(name string) (int, error) {
	if err := s.checkOpen("Stmt.BindName"); err != nil {
		return 0, err
	}
	i := s.BindParameterIndex(name)
	if i == 0 {
		return 0, &ParameterNotFoundError{Name: name, SQL: s.sql}
	}
	return i, nil
}

func bindName[T any](s *Stmt, name string, v T, bind func(int, T) error) error {
	i, err := s.paramIndex(name)
	if err != nil {
		return err
	}
	return bind(i, v)
}

// BindFloat64 is sqlite3_bind_double.
func (s *Stmt) BindFloat64(i int, v float64) error {
	if err := s.checkOpen("Stmt.BindFloat64"); err != nil {
		return err
	}
	return s.bindErr(i, "float64", s.h.stmt.BindDouble(i, v))
}

// BindInt32 is sqlite3_bind_int.
func (s *Stmt) BindInt32(i int, v int32) error {
	if err := s.checkOpen("Stmt.BindInt32"); err != nil {
		return err
	}
	return s.bindErr(i, "int32", s.h.stmt.BindInt(i, v))
}

// BindInt64 is sqlite3_bind_int64.
func (s *Stmt) BindInt64(i int, v int64) error {
	if err := s.checkOpen("Stmt.BindInt64"); err != nil {
		return err
	}
	return s.bindErr(i, "int64", s.h.stmt.BindInt64(i, v))
}

// BindText binds v as TEXT. SQLite takes its own copy.
func (s *Stmt) BindText(i int, v string) error {
	if err := s.checkOpen("Stmt.BindText"); err != nil {
		return err
	}
	s.buf = append(s.buf[:0], v...)
	return s.bindErr(i, "string", s.h.stmt.BindText(i, s.buf))
}

// BindTextBytes binds UTF-8 v as TEXT. SQLite takes its own copy, so v
// may be reused as soon as the call returns.
func (s *Stmt) BindTextBytes(i int, v []byte) error {
	if err := s.checkOpen("Stmt.BindTextBytes"); err != nil {
		return err
	}
	return s.bindErr(i, "[]byte", s.h.stmt.BindText(i, v))
}

// BindBlob binds v as a BLOB. A nil v binds NULL; an empty non-nil v
// binds a zero-length blob. SQLite takes its own copy.
func (s *Stmt) BindBlob(i int, v []byte) error {
	if v == nil {
		return s.BindNull(i)
	}
	if err := s.checkOpen("Stmt.BindBlob"); err != nil {
		return err
	}
	return s.bindErr(i, "blob", s.h.stmt.BindBlob(i, v))
}

// BindNull is sqlite3_bind_null.
func (s *Stmt) BindNull(i int) error {
	if err := s.checkOpen("Stmt.BindNull"); err != nil {
		return err
	}
	return s.bindErr(i, "nil", s.h.stmt.BindNull(i))
}

// BindZeroBlob binds a blob of n zero bytes, for later incremental I/O.
func (s *Stmt) BindZeroBlob(i int, n int32) error {
	if err := s.checkOpen("Stmt.BindZeroBlob"); err != nil {
		return err
	}
	return s.bindErr(i, "zeroblob", s.h.stmt.BindZeroBlob(i, n))
}

// BindZeroBlob64 is BindZeroBlob with a 64-bit length.
func (s *Stmt) BindZeroBlob64(i int, n uint64) error {
	if err := s.checkOpen("Stmt.BindZeroBlob64"); err != nil {
		return err
	}
	return s.bindErr(i, "zeroblob64", s.h.stmt.BindZeroBlob64(i, n))
}

// BindTime binds t in the given format.
func (s *Stmt) BindTime(i int, t time.Time, f DateTimeFormat) error {
	switch f {
	case ISO8601Text:
		if err := s.checkOpen("Stmt.BindTime"); err != nil {
			return err
		}
		s.buf = t.AppendFormat(s.buf[:0], iso8601Layout)
		return s.bindErr(i, "time", s.h.stmt.BindText(i, s.buf))
	case JulianDateReal:
		return s.BindFloat64(i, EncodeJulianDay(t))
	case UnixTimeInteger:
		return s.BindInt64(i, EncodeUnixTime(t))
	}
	return invalidFormat(f)
}

func bindNullable[T any](s *Stmt, i int, v *T, bind func(int, T) error) error {
	if v == nil {
		return s.BindNull(i)
	}
	return bind(i, *v)
}

// BindNullableFloat64 binds *v, or NULL if v is nil.
func (s *Stmt) BindNullableFloat64(i int, v *float64) error {
	return bindNullable(s, i, v, s.BindFloat64)
}

// BindNullableInt32 binds *v, or NULL if v is nil.
func (s *Stmt) BindNullableInt32(i int, v *int32) error {
	return bindNullable(s, i, v, s.BindInt32)
}

// BindNullableInt64 binds *v, or NULL if v is nil.
func (s *Stmt) BindNullableInt64(i int, v *int64) error {
	return bindNullable(s, i, v, s.BindInt64)
}

// BindNullableText binds *v, or NULL if v is nil.
func (s *Stmt) BindNullableText(i int, v *string) error {
	return bindNullable(s, i, v, s.BindText)
}

// BindNullableTime binds *v in format f, or NULL if v is nil.
func (s *Stmt) BindNullableTime(i int, v *time.Time, f DateTimeFormat) error {
	if v == nil {
		if !f.valid() {
			return invalidFormat(f)
		}
		return s.BindNull(i)
	}
	return s.BindTime(i, *v, f)
}

// BindFloat64Name is BindFloat64 addressed by parameter name.
func (s *Stmt) BindFloat64Name(name string, v float64) error {
	return bindName(s, name, v, s.BindFloat64)
}

// BindInt32Name is BindInt32 addressed by parameter name.
func (s *Stmt) BindInt32Name(name string, v int32) error {
	return bindName(s, name, v, s.BindInt32)
}

// BindInt64Name is BindInt64 addressed by parameter name.
func (s *Stmt) BindInt64Name(name string, v int64) error {
	return bindName(s, name, v, s.BindInt64)
}

// BindTextName is BindText addressed by parameter name.
func (s *Stmt) BindTextName(name string, v string) error {
	return bindName(s, name, v, s.BindText)
}

// BindTextBytesName is BindTextBytes addressed by parameter name.
func (s *Stmt) BindTextBytesName(name string, v []byte) error {
	return bindName(s, name, v, s.BindTextBytes)
}

// BindBlobName is BindBlob addressed by parameter name.
func (s *Stmt) BindBlobName(name string, v []byte) error {
	return bindName(s, name, v, s.BindBlob)
}

// BindNullName is BindNull addressed by parameter name.
func (s *Stmt) BindNullName(name string) error {
	i, err := s.paramIndex(name)
	if err != nil {
		return err
	}
	return s.BindNull(i)
}

// BindZeroBlobName is BindZeroBlob addressed by parameter name.
func (s *Stmt) BindZeroBlobName(name string, n int32) error {
	return bindName(s, name, n, s.BindZeroBlob)
}

// BindZeroBlob64Name is BindZeroBlob64 addressed by parameter name.
func (s *Stmt) BindZeroBlob64Name(name string, n uint64) error {
	return bindName(s, name, n, s.BindZeroBlob64)
}

// BindTimeName is BindTime addressed by parameter name.
func (s *Stmt) BindTimeName(name string, t time.Time, f DateTimeFormat) error {
	i, err := s.paramIndex(name)
	if err != nil {
		return err
	}
	return s.BindTime(i, t, f)
}

// BindNullableFloat64Name is BindNullableFloat64 addressed by parameter name.
func (s *Stmt) BindNullableFloat64Name(name string, v *float64) error {
	return bindName(s, name, v, s.BindNullableFloat64)
}

// BindNullableInt32Name is BindNullableInt32 addressed by parameter name.
func (s *Stmt) BindNullableInt32Name(name string, v *int32) error {
	return bindName(s, name, v, s.BindNullableInt32)
}

// BindNullableInt64Name is BindNullableInt64 addressed by parameter name.
func (s *Stmt) BindNullableInt64Name(name string, v *int64) error {
	return bindName(s, name, v, s.BindNullableInt64)
}

// BindNullableTextName is BindNullableText addressed by parameter name.
func (s *Stmt) BindNullableTextName(name string, v *string) error {
	return bindName(s, name, v, s.BindNullableText)
}

// BindNullableTimeName is BindNullableTime addressed by parameter name.
func (s *Stmt) BindNullableTimeName(name string, v *time.Time, f DateTimeFormat) error {
	i, err := s.paramIndex(name)
	if err != nil {
		return err
	}
	return s.BindNullableTime(i, v, f)
}
