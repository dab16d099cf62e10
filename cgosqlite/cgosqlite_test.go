package cgosqlite_test

import (
	"testing"

	"github.com/tailscale/sqlitebind/cgosqlite"
	"github.com/tailscale/sqlitebind/sqliteh"
	"tailscale.com/tstest"
)

func openMem(t testing.TB) *cgosqlite.DB {
	t.Helper()
	db, err := cgosqlite.Open(sqliteh.CString(":memory:"), sqliteh.SQLITE_OPEN_READWRITE|sqliteh.SQLITE_OPEN_CREATE, nil)
	if err != nil {
		if db != nil {
			db.Close()
		}
		t.Fatal(err)
	}
	t.Cleanup(func() {
		err := db.Close()
		if !t.Failed() && err != nil {
			t.Error(err)
		}
	})
	if err := db.ExtendedResultCodes(true); err != nil {
		t.Fatal(err)
	}
	return db
}

func prepare(t testing.TB, db *cgosqlite.DB, query string) sqliteh.Stmt {
	t.Helper()
	stmt, _, err := db.Prepare(sqliteh.CString(query), 0)
	if err != nil {
		t.Fatalf("%v: %s", err, db.ErrMsg())
	}
	if stmt == nil {
		t.Fatalf("no statement in %q", query)
	}
	t.Cleanup(func() { stmt.Finalize() })
	return stmt
}

func TestPrepareTail(t *testing.T) {
	db := openMem(t)
	q := sqliteh.CString("SELECT 1; SELECT 2;")
	stmt, tail, err := db.Prepare(q, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer stmt.Finalize()
	if got, want := string(q[tail:len(q)-1]), " SELECT 2;"; got != want {
		t.Errorf("remainder=%q, want %q", got, want)
	}

	q = sqliteh.CString("SELECT 1;")
	stmt2, tail, err := db.Prepare(q, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer stmt2.Finalize()
	if tail != len(q)-1 {
		t.Errorf("tail=%d, want %d", tail, len(q)-1)
	}

	stmt3, _, err := db.Prepare(sqliteh.CString("  -- nothing\n"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if stmt3 != nil {
		t.Errorf("comment-only prepare returned a statement")
	}

	if _, _, err := db.Prepare([]byte("SELECT 1"), 0); err == nil {
		t.Errorf("unterminated prepare succeeded")
	}
}

func TestPrepareError(t *testing.T) {
	db := openMem(t)
	_, _, err := db.Prepare(sqliteh.CString("SELECT * FROM nope;"), 0)
	if err != sqliteh.ErrCode(sqliteh.SQLITE_ERROR) {
		t.Fatalf("err=%v, want SQLITE_ERROR", err)
	}
	if got, want := db.ErrMsg(), "no such table: nope"; got != want {
		t.Errorf("ErrMsg=%q, want %q", got, want)
	}
	if got, want := (cgosqlite.Library{}).ErrStr(sqliteh.SQLITE_ERROR), "SQL logic error"; got != want {
		t.Errorf("ErrStr=%q, want %q", got, want)
	}
}

func TestBindTransient(t *testing.T) {
	db := openMem(t)
	stmt := prepare(t, db, "SELECT ?, ?, ?, typeof(?), length(?);")

	text := []byte("hello")
	blob := []byte{1, 2, 3}
	if err := stmt.BindText(1, text); err != nil {
		t.Fatal(err)
	}
	if err := stmt.BindBlob(2, blob); err != nil {
		t.Fatal(err)
	}
	if err := stmt.BindText(3, nil); err != nil {
		t.Fatal(err)
	}
	if err := stmt.BindBlob(4, []byte{}); err != nil {
		t.Fatal(err)
	}
	if err := stmt.BindZeroBlob64(5, 16); err != nil {
		t.Fatal(err)
	}
	// The engine holds its own copies.
	copy(text, "XXXXX")
	blob[0] = 9

	code, err := stmt.Step()
	if err != nil || code != sqliteh.SQLITE_ROW {
		t.Fatalf("Step=%v, %v", code, err)
	}
	if got := stmt.ColumnText(0).StringCopy(); got != "hello" {
		t.Errorf("text=%q, want hello", got)
	}
	if got := stmt.ColumnBlob(1).StringCopy(); got != "\x01\x02\x03" {
		t.Errorf("blob=%q", got)
	}
	if typ := stmt.ColumnType(2); typ != sqliteh.SQLITE_TEXT {
		t.Errorf("empty text type=%v, want SQLITE_TEXT", typ)
	}
	if got := stmt.ColumnText(3).StringCopy(); got != "blob" {
		t.Errorf("typeof(empty blob)=%q, want blob", got)
	}
	if got := stmt.ColumnInt64(4); got != 16 {
		t.Errorf("length(zeroblob)=%d, want 16", got)
	}
	code, err = stmt.Step()
	if err != nil || code != sqliteh.SQLITE_DONE {
		t.Fatalf("Step=%v, %v", code, err)
	}
}

func TestBindParameterIndex(t *testing.T) {
	db := openMem(t)
	stmt := prepare(t, db, "SELECT :a, @b, $c;")
	if n := stmt.BindParameterCount(); n != 3 {
		t.Errorf("BindParameterCount=%d, want 3", n)
	}
	for i, name := range []string{":a", "@b", "$c"} {
		if got := stmt.BindParameterIndex(sqliteh.CString(name)); got != i+1 {
			t.Errorf("BindParameterIndex(%q)=%d, want %d", name, got, i+1)
		}
	}
	if got := stmt.BindParameterIndex(sqliteh.CString(":missing")); got != 0 {
		t.Errorf("missing index=%d, want 0", got)
	}
}

func TestStepBindAllocs(t *testing.T) {
	db := openMem(t)
	stmt := prepare(t, db, "SELECT ? + 1;")
	// TODO: this should be zero allocs, but each cgo call costs one.
	const maxAllocs = 4
	err := tstest.MinAllocsPerRun(t, maxAllocs, func() {
		if err := stmt.BindInt64(1, 41); err != nil {
			t.Fatal(err)
		}
		if code, err := stmt.Step(); err != nil || code != sqliteh.SQLITE_ROW {
			t.Fatalf("Step=%v, %v", code, err)
		}
		if got := stmt.ColumnInt64(0); got != 42 {
			t.Fatalf("got %d, want 42", got)
		}
		if err := stmt.Reset(); err != nil {
			t.Fatal(err)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAutoCommit(t *testing.T) {
	db := openMem(t)
	if !db.AutoCommit() {
		t.Fatal("new connection is inside a transaction")
	}
	for _, q := range []string{"BEGIN;", "COMMIT;"} {
		stmt := prepare(t, db, q)
		if code, err := stmt.Step(); err != nil || code != sqliteh.SQLITE_DONE {
			t.Fatalf("%s: Step=%v, %v", q, code, err)
		}
		if got, want := db.AutoCommit(), q == "COMMIT;"; got != want {
			t.Errorf("after %s: AutoCommit=%v, want %v", q, got, want)
		}
	}
}
