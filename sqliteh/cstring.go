package sqliteh

import (
	"errors"
	"unsafe"
)

// EncodingError reports a failure to move text across the C boundary.
type EncodingError struct {
	Op  string
	Err error
}

func (e *EncodingError) Error() string {
	return "sqliteh." + e.Op + ": " + e.Err.Error()
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ErrNilCString is wrapped by the EncodingError GoString returns
// for a nil pointer.
var ErrNilCString = errors.New("nil C string")

// CString returns s as a NUL-terminated UTF-8 byte slice of length
// len(s)+1. The empty string yields []byte{0}.
//
// Go strings are already UTF-8, so no transcoding happens. Invalid
// sequences are passed through byte for byte.
func CString(s string) []byte {
	return AppendCString(make([]byte, 0, len(s)+1), s)
}

// AppendCString appends s and a NUL terminator to dst.
func AppendCString(dst []byte, s string) []byte {
	dst = append(dst, s...)
	return append(dst, 0)
}

// IsCString reports whether b is non-empty and ends in a NUL byte.
func IsCString(b []byte) bool {
	return len(b) > 0 && b[len(b)-1] == 0
}

// GoString copies the NUL-terminated string at p into Go memory.
// A nil p is an error; callers that accept a missing value
// check for nil before calling.
func GoString(p unsafe.Pointer) (string, error) {
	if p == nil {
		return "", &EncodingError{Op: "GoString", Err: ErrNilCString}
	}
	return string(unsafe.Slice((*byte)(p), cstrlen(p))), nil
}

// GoStringN copies exactly n bytes at p into Go memory.
// A nil p or n <= 0 yields "".
func GoStringN(p unsafe.Pointer, n int) string {
	if p == nil || n <= 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), n))
}

// GoStringOrEmpty is GoString for C APIs that return NULL to mean "".
func GoStringOrEmpty(p unsafe.Pointer) string {
	s, _ := GoString(p)
	return s
}

func cstrlen(p unsafe.Pointer) int {
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return n
}
