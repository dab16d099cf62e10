package sqlite

import (
	"errors"
	"testing"

	"github.com/tailscale/sqlitebind/sqliteh"
)

// fakeLib and friends embed the interfaces they implement, so any
// method a test does not expect panics on the nil embedded value.
type fakeLib struct {
	sqliteh.Library
	db      *fakeDB
	openErr error
}

func (l *fakeLib) Open([]byte, sqliteh.OpenFlags, []byte) (sqliteh.DB, error) {
	if l.db == nil {
		return nil, l.openErr
	}
	return l.db, l.openErr
}

func (l *fakeLib) ErrStr(code sqliteh.Code) string { return "fake " + code.String() }

type fakeDB struct {
	sqliteh.DB
	closes   int
	extErr   error
	closeErr error
	stmts    []*fakeStmt
	tail     int // returned by Prepare when >= 0
}

func (db *fakeDB) Close() error                      { db.closes++; return db.closeErr }
func (db *fakeDB) ErrMsg() string                    { return "fake message" }
func (db *fakeDB) ExtendedResultCodes(on bool) error { return db.extErr }

func (db *fakeDB) Prepare(query []byte, _ sqliteh.PrepareFlags) (sqliteh.Stmt, int, error) {
	s := &fakeStmt{db: db}
	db.stmts = append(db.stmts, s)
	tail := len(query) - 1
	if db.tail >= 0 {
		tail = db.tail
	}
	return s, tail, nil
}

type fakeStmt struct {
	sqliteh.Stmt
	db        *fakeDB
	finalizes int
}

func (s *fakeStmt) Finalize() error {
	s.finalizes++
	if s.db.closes > 0 {
		panic("statement finalized after its connection closed")
	}
	return nil
}

func withFakeLib(t *testing.T, lib *fakeLib) {
	t.Helper()
	initLog() // against the real library, before it is swapped out
	old := Lib
	Lib = lib
	t.Cleanup(func() { Lib = old })
}

func TestHandleReleaseOnce(t *testing.T) {
	db := &fakeDB{closeErr: sqliteh.ErrCode(sqliteh.SQLITE_BUSY)}
	h := &connHandle{db: db}
	if !h.valid() {
		t.Fatal("new handle is not valid")
	}
	h.release()
	h.release()
	if db.closes != 1 {
		t.Errorf("Close called %d times, want 1", db.closes)
	}
	if h.valid() {
		t.Error("released handle is valid")
	}
	if h.releaseErr != db.closeErr {
		t.Errorf("releaseErr=%v, want %v", h.releaseErr, db.closeErr)
	}

	var nilHandle *connHandle
	nilHandle.release()
	if nilHandle.valid() {
		t.Error("nil handle is valid")
	}
	empty := &stmtHandle{}
	empty.release()
	if empty.valid() {
		t.Error("sentinel statement handle is valid")
	}
}

func TestOpenFailureReleasesHandle(t *testing.T) {
	db := &fakeDB{tail: -1}
	withFakeLib(t, &fakeLib{db: db, openErr: sqliteh.ErrCode(sqliteh.SQLITE_CANTOPEN)})

	_, err := OpenExistingDB("/nonexistent")
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("err=%v, want *Error", err)
	}
	if e.Msg != "" {
		t.Errorf("Msg=%q, want empty for an open failure", e.Msg)
	}
	if e.CodeName != "fake SQLITE_CANTOPEN" {
		t.Errorf("CodeName=%q", e.CodeName)
	}
	if db.closes != 1 {
		t.Errorf("half-open handle closed %d times, want 1", db.closes)
	}

	db2 := &fakeDB{tail: -1, extErr: sqliteh.ErrCode(sqliteh.SQLITE_MISUSE)}
	withFakeLib(t, &fakeLib{db: db2})
	if _, err := OpenExistingDB("/x"); !errors.Is(err, sqliteh.ErrCode(sqliteh.SQLITE_MISUSE)) {
		t.Errorf("err=%v, want SQLITE_MISUSE", err)
	}
	if db2.closes != 1 {
		t.Errorf("handle closed %d times after extended codes failed, want 1", db2.closes)
	}

	libErr := errors.New("no library")
	withFakeLib(t, &fakeLib{openErr: libErr})
	if _, err := OpenExistingDB("/x"); !errors.Is(err, libErr) {
		t.Errorf("err=%v, want %v", err, libErr)
	}
}

func TestCloseOrder(t *testing.T) {
	db := &fakeDB{tail: -1}
	withFakeLib(t, &fakeLib{db: db})
	c, err := OpenExistingDB("/x")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := c.Prepare("SELECT 1;"); err != nil {
			t.Fatal(err)
		}
	}
	c.Close()
	c.Close()
	for i, s := range db.stmts {
		if s.finalizes != 1 {
			t.Errorf("stmt %d finalized %d times, want 1", i, s.finalizes)
		}
	}
	if db.closes != 1 {
		t.Errorf("Close called %d times, want 1", db.closes)
	}
}

func TestMultipleStatementsFinalizes(t *testing.T) {
	db := &fakeDB{tail: len("SELECT 1;")}
	withFakeLib(t, &fakeLib{db: db})
	c, err := OpenExistingDB("/x")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	_, err = c.Prepare("SELECT 1; SELECT 2;")
	var e *MultipleStatementsError
	if !errors.As(err, &e) {
		t.Fatalf("err=%v, want *MultipleStatementsError", err)
	}
	if len(db.stmts) != 1 || db.stmts[0].finalizes != 1 {
		t.Errorf("prepared statement was not finalized before the error")
	}
}
