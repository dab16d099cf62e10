package sqlite

import (
	"math"
	"time"

	"github.com/tailscale/sqlitebind/sqliteh"
	"go4.org/mem"
)

// ColumnCount is sqlite3_column_count.
func (s *Stmt) ColumnCount() int {
	if s.checkOpen("Stmt.ColumnCount") != nil {
		return 0
	}
	return s.h.stmt.ColumnCount()
}

// ColumnName is sqlite3_column_name.
func (s *Stmt) ColumnName(i int) string {
	if s.checkOpen("Stmt.ColumnName") != nil {
		return ""
	}
	return s.h.stmt.ColumnName(i)
}

// ColumnType reports the type of column i in the current row.
//
// The type is read from SQLite on every call. Outside a row, or for an
// out of range i, it is SQLITE_NULL.
func (s *Stmt) ColumnType(i int) sqliteh.ColumnType {
	if s.checkOpen("Stmt.ColumnType") != nil {
		return sqliteh.SQLITE_NULL
	}
	return s.h.stmt.ColumnType(i)
}

// column checks that column i holds want. null reports a NULL value,
// which is also a *TypeMismatchError.
func (s *Stmt) column(loc string, i int, want sqliteh.ColumnType) (null bool, err error) {
	if err := s.checkOpen(loc); err != nil {
		return false, err
	}
	got := s.h.stmt.ColumnType(i)
	if got == want {
		return false, nil
	}
	return got == sqliteh.SQLITE_NULL, &TypeMismatchError{Col: i, Want: want, Got: got}
}

// nullable adapts a column reader so that NULL yields ok=false and no error.
func nullable[T any](null bool, v T, err error) (T, bool, error) {
	if null {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

// ColumnFloat64 reads a REAL column.
func (s *Stmt) ColumnFloat64(i int) (float64, error) {
	_, v, err := s.columnFloat64(i)
	return v, err
}

func (s *Stmt) columnFloat64(i int) (null bool, v float64, err error) {
	if null, err := s.column("Stmt.ColumnFloat64", i, sqliteh.SQLITE_FLOAT); err != nil {
		return null, 0, err
	}
	return false, s.h.stmt.ColumnDouble(i), nil
}

// ColumnInt64 reads an INTEGER column.
func (s *Stmt) ColumnInt64(i int) (int64, error) {
	_, v, err := s.columnInt64(i)
	return v, err
}

func (s *Stmt) columnInt64(i int) (null bool, v int64, err error) {
	if null, err := s.column("Stmt.ColumnInt64", i, sqliteh.SQLITE_INTEGER); err != nil {
		return null, 0, err
	}
	return false, s.h.stmt.ColumnInt64(i), nil
}

// ColumnInt32 reads an INTEGER column that must fit in 32 bits.
func (s *Stmt) ColumnInt32(i int) (int32, error) {
	_, v, err := s.columnInt32(i)
	return v, err
}

func (s *Stmt) columnInt32(i int) (null bool, v int32, err error) {
	null, v64, err := s.columnInt64(i)
	if err != nil {
		return null, 0, err
	}
	if v64 < math.MinInt32 || v64 > math.MaxInt32 {
		return false, 0, &OverflowError{Col: i, Value: v64}
	}
	return false, int32(v64), nil
}

// ColumnString reads a TEXT column.
func (s *Stmt) ColumnString(i int) (string, error) {
	_, v, err := s.columnString(i)
	return v, err
}

func (s *Stmt) columnString(i int) (null bool, v string, err error) {
	if null, err := s.column("Stmt.ColumnString", i, sqliteh.SQLITE_TEXT); err != nil {
		return null, "", err
	}
	return false, s.h.stmt.ColumnText(i).StringCopy(), nil
}

// ColumnBlob reads a BLOB column into a new slice.
// A zero-length blob is an empty, non-nil slice.
func (s *Stmt) ColumnBlob(i int) ([]byte, error) {
	_, v, err := s.columnBlob(i)
	return v, err
}

func (s *Stmt) columnBlob(i int) (null bool, v []byte, err error) {
	if null, err := s.column("Stmt.ColumnBlob", i, sqliteh.SQLITE_BLOB); err != nil {
		return null, nil, err
	}
	ro := s.h.stmt.ColumnBlob(i)
	return false, mem.Append(make([]byte, 0, ro.Len()), ro), nil
}

// ColumnTime reads a column written in format f.
func (s *Stmt) ColumnTime(i int, f DateTimeFormat) (time.Time, error) {
	_, v, err := s.columnTime(i, f)
	return v, err
}

func (s *Stmt) columnTime(i int, f DateTimeFormat) (null bool, v time.Time, err error) {
	switch f {
	case ISO8601Text:
		null, str, err := s.columnString(i)
		if err != nil {
			return null, time.Time{}, err
		}
		t, err := DecodeISO8601(str)
		return false, t, err
	case JulianDateReal:
		null, r, err := s.columnFloat64(i)
		if err != nil {
			return null, time.Time{}, err
		}
		return false, DecodeJulianDay(r), nil
	case UnixTimeInteger:
		null, n, err := s.columnInt64(i)
		if err != nil {
			return null, time.Time{}, err
		}
		return false, DecodeUnixTime(n), nil
	}
	return false, time.Time{}, invalidFormat(f)
}

// ColumnNullableFloat64 is ColumnFloat64 with ok=false for NULL.
func (s *Stmt) ColumnNullableFloat64(i int) (v float64, ok bool, err error) {
	return nullable(s.columnFloat64(i))
}

// ColumnNullableInt32 is ColumnInt32 with ok=false for NULL.
func (s *Stmt) ColumnNullableInt32(i int) (v int32, ok bool, err error) {
	return nullable(s.columnInt32(i))
}

// ColumnNullableInt64 is ColumnInt64 with ok=false for NULL.
func (s *Stmt) ColumnNullableInt64(i int) (v int64, ok bool, err error) {
	return nullable(s.columnInt64(i))
}

// ColumnNullableString is ColumnString with ok=false for NULL.
func (s *Stmt) ColumnNullableString(i int) (v string, ok bool, err error) {
	return nullable(s.columnString(i))
}

// ColumnNullableBlob is ColumnBlob with ok=false for NULL.
func (s *Stmt) ColumnNullableBlob(i int) (v []byte, ok bool, err error) {
	return nullable(s.columnBlob(i))
}

// ColumnNullableTime is ColumnTime with ok=false for NULL.
func (s *Stmt) ColumnNullableTime(i int, f DateTimeFormat) (v time.Time, ok bool, err error) {
	return nullable(s.columnTime(i, f))
}
