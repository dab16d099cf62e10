package sqlite

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tailscale/sqlitebind/sqliteh"
)

type logLine struct {
	Code sqliteh.Code
	Msg  string
}

func TestSubscribeLog(t *testing.T) {
	var a, b []logLine
	unsubA := SubscribeLog(func(code sqliteh.Code, msg string) { a = append(a, logLine{code, msg}) })
	unsubB := SubscribeLog(func(code sqliteh.Code, msg string) { b = append(b, logLine{code, msg}) })
	defer unsubB()

	dispatchLog(sqliteh.SQLITE_WARNING, "one")
	unsubA()
	unsubA()
	dispatchLog(sqliteh.SQLITE_NOTICE_RECOVER_WAL, "two")

	if diff := cmp.Diff([]logLine{{sqliteh.SQLITE_WARNING, "one"}}, a); diff != "" {
		t.Errorf("first subscriber (-want +got):\n%s", diff)
	}
	want := []logLine{
		{sqliteh.SQLITE_WARNING, "one"},
		{sqliteh.SQLITE_NOTICE_RECOVER_WAL, "two"},
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("second subscriber (-want +got):\n%s", diff)
	}
}

func TestSubscribeDuringDispatch(t *testing.T) {
	var calls int
	var unsub func()
	unsub = SubscribeLog(func(sqliteh.Code, string) {
		calls++
		unsub()
	})
	dispatchLog(sqliteh.SQLITE_ERROR, "x")
	dispatchLog(sqliteh.SQLITE_ERROR, "y")
	if calls != 1 {
		t.Errorf("calls=%d, want 1", calls)
	}
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	fn := SlogHandler(logger)

	fn(sqliteh.SQLITE_WARNING_AUTOINDEX, "automatic index on t(c)")
	fn(sqliteh.SQLITE_CORRUPT, "database corruption at line 1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{
		`level=WARN msg="sqlite log" code=SQLITE_WARNING_AUTOINDEX msg="automatic index on t(c)"`,
		`level=ERROR msg="sqlite log" code=SQLITE_CORRUPT msg="database corruption at line 1"`,
	} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d=%q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestLogHookInstalled(t *testing.T) {
	if _, ok := Lib.(missingLibrary); ok {
		t.Skip("no native library")
	}
	if err := LogHookErr(); err != nil {
		t.Skipf("log hook not installed: %v", err)
	}

	got := make(chan logLine, 16)
	defer SubscribeLog(func(code sqliteh.Code, msg string) {
		select {
		case got <- logLine{code, msg}:
		default:
		}
	})()

	c := openTestConn(t)
	// A failed prepare is reported to the error log.
	if _, err := c.Prepare("SELECT * FROM no_such_table;"); err == nil {
		t.Fatal("prepare succeeded")
	}
	select {
	case l := <-got:
		if l.Code.Primary() != sqliteh.SQLITE_ERROR || !strings.Contains(l.Msg, "no_such_table") {
			t.Errorf("log=%+v, want SQLITE_ERROR mentioning no_such_table", l)
		}
	default:
		t.Error("no log message")
	}
}
