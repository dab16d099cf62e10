package sqliteh

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"tailscale.com/tstest"
)

func TestCString(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"", []byte{0}},
		{"a", []byte{'a', 0}},
		{"SELECT 1;", append([]byte("SELECT 1;"), 0)},
		{"héllo", append([]byte("héllo"), 0)},
		{"\xff\xfe", []byte{0xff, 0xfe, 0}},
	}
	for _, tt := range tests {
		got := CString(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("CString(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
		if len(got) != len(tt.in)+1 {
			t.Errorf("len(CString(%q))=%d, want %d", tt.in, len(got), len(tt.in)+1)
		}
		if !IsCString(got) {
			t.Errorf("IsCString(CString(%q)) = false", tt.in)
		}
	}
}

func TestIsCString(t *testing.T) {
	tests := []struct {
		in   []byte
		want bool
	}{
		{nil, false},
		{[]byte{}, false},
		{[]byte("abc"), false},
		{[]byte{0}, true},
		{[]byte("abc\x00"), true},
		{[]byte("a\x00c"), false},
	}
	for _, tt := range tests {
		if got := IsCString(tt.in); got != tt.want {
			t.Errorf("IsCString(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGoString(t *testing.T) {
	for _, s := range []string{"", "x", "no such table: t", "héllo"} {
		b := CString(s)
		got, err := GoString(unsafe.Pointer(&b[0]))
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Errorf("GoString=%q, want %q", got, s)
		}
	}

	b := []byte("abc\x00def\x00")
	got, err := GoString(unsafe.Pointer(&b[0]))
	if err != nil {
		t.Fatal(err)
	}
	if got != "abc" {
		t.Errorf("GoString stopped at %q, want %q", got, "abc")
	}

	_, err = GoString(nil)
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("GoString(nil) err=%v, want *EncodingError", err)
	}
	if !errors.Is(err, ErrNilCString) {
		t.Errorf("GoString(nil) err=%v, want ErrNilCString", err)
	}
	if s := GoStringOrEmpty(nil); s != "" {
		t.Errorf("GoStringOrEmpty(nil)=%q", s)
	}
}

func TestGoStringN(t *testing.T) {
	b := []byte("hello\x00world")
	if got := GoStringN(unsafe.Pointer(&b[0]), len(b)); got != "hello\x00world" {
		t.Errorf("GoStringN=%q", got)
	}
	if got := GoStringN(unsafe.Pointer(&b[0]), 0); got != "" {
		t.Errorf("GoStringN(n=0)=%q", got)
	}
	if got := GoStringN(nil, 5); got != "" {
		t.Errorf("GoStringN(nil)=%q", got)
	}
}

func TestAppendCStringAllocs(t *testing.T) {
	buf := make([]byte, 0, 64)
	err := tstest.MinAllocsPerRun(t, 0, func() {
		buf = AppendCString(buf[:0], "SELECT * FROM t WHERE k = ?;")
	})
	if err != nil {
		t.Fatal(err)
	}
}
