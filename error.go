package sqlite

import (
	"errors"
	"expvar"
	"fmt"
	"strings"

	"github.com/tailscale/sqlitebind/sqliteh"
)

// ErrInvalidArgument is returned, wrapped, for bad input detected before
// any call into SQLite: an empty path, empty or unterminated SQL, or an
// unknown DateTimeFormat.
var ErrInvalidArgument = errors.New("sqlite: invalid argument")

// ErrClosed is returned when an operation is attempted on a connection or
// statement after Close has already been called.
var ErrClosed = errors.New("sqlite3: already closed")

// UsesAfterClose is a metric that is incremented every time an operation is
// attempted on a connection or statement after Close has already been
// called. The keys are internal identifiers for the code path that
// incremented a counter.
var UsesAfterClose expvar.Map

// Error is an error produced by SQLite.
type Error struct {
	Code     sqliteh.Code // SQLite extended error code (SQLITE_OK is an invalid value)
	CodeName string       // sqlite3_errstr of Code
	Msg      string       // sqlite3_errmsg of the connection, empty when there was none
	SQL      string       // statement text, when known
	Loc      string       // method name that generated the error
}

func (err *Error) Error() string {
	b := new(strings.Builder)
	b.WriteString("sqlite")
	if err.Loc != "" {
		b.WriteByte('.')
		b.WriteString(err.Loc)
	}
	b.WriteString(": ")
	b.WriteString(err.Code.String())
	if err.CodeName != "" {
		b.WriteString(": ")
		b.WriteString(err.CodeName)
	}
	if err.Msg != "" && err.Msg != err.CodeName {
		b.WriteString(": ")
		b.WriteString(err.Msg)
	}
	if err.SQL != "" {
		b.WriteString(" (")
		b.WriteString(err.SQL)
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the sqliteh.ErrCode, so errors.Is matches on
// sqliteh.ErrCode values.
func (err *Error) Unwrap() error { return sqliteh.CodeAsError(err.Code) }

// ErrorCode reports the SQLite result code carried by err, if any.
func ErrorCode(err error) (sqliteh.Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	var ec sqliteh.ErrCode
	if errors.As(err, &ec) {
		return sqliteh.Code(ec), true
	}
	return 0, false
}

// MultipleStatementsError is returned by Prepare when the SQL text holds
// more than one command. The first command was compiled and has already
// been finalized.
type MultipleStatementsError struct {
	SQL       string // the first command
	Remainder string // everything after it, verbatim
}

func (err *MultipleStatementsError) Error() string {
	return fmt.Sprintf("sqlite.Prepare: query has trailing text: %q", err.Remainder)
}

// ParameterNotFoundError is returned by the Bind*Name methods when the
// statement has no parameter with that name.
type ParameterNotFoundError struct {
	Name string
	SQL  string
}

func (err *ParameterNotFoundError) Error() string {
	return fmt.Sprintf("sqlite.Bind: unknown parameter name %q (%s)", err.Name, err.SQL)
}

// TypeMismatchError is returned by a typed column reader when the value in
// the current row has a different type.
type TypeMismatchError struct {
	Col  int
	Want sqliteh.ColumnType
	Got  sqliteh.ColumnType
}

func (err *TypeMismatchError) Error() string {
	return fmt.Sprintf("sqlite.Column:%d: type %v, want %v", err.Col, err.Got, err.Want)
}

// OverflowError is returned by ColumnInt32 when the stored integer does
// not fit in 32 bits.
type OverflowError struct {
	Col   int
	Value int64
}

func (err *OverflowError) Error() string {
	return fmt.Sprintf("sqlite.Column:%d: %d overflows int32", err.Col, err.Value)
}

// UnexpectedStepError is returned by NewRowStep, DoneStep and
// TryNewRowStep when Step landed somewhere else.
type UnexpectedStepError struct {
	Want StepResult
	Got  StepResult
	SQL  string
}

func (err *UnexpectedStepError) Error() string {
	return fmt.Sprintf("sqlite.Step: got %v, want %v (%s)", err.Got, err.Want, err.SQL)
}

// reserr turns an sqliteh.ErrCode into an *Error carrying the connection's
// last message. Other errors pass through.
func reserr(db sqliteh.DB, loc, sql string, err error) error {
	if err == nil {
		return nil
	}
	ec, ok := err.(sqliteh.ErrCode)
	if !ok {
		return err
	}
	e := &Error{
		Code:     sqliteh.Code(ec),
		CodeName: Lib.ErrStr(sqliteh.Code(ec)),
		Loc:      loc,
		SQL:      sql,
	}
	if db != nil {
		e.Msg = db.ErrMsg()
	}
	return e
}
