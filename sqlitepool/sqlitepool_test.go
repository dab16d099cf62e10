package sqlitepool

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	sqlite "github.com/tailscale/sqlitebind"
)

type query int

const (
	qInsert query = iota
	qCount
	qGet
)

func (q query) String() string { return fmt.Sprintf("query%d", int(q)) }

var testQueries = map[query]string{
	qInsert: "INSERT INTO t (id, val) VALUES (?, ?);",
	qCount:  "SELECT count(*) FROM t;",
	qGet:    "SELECT val FROM t WHERE id = ?;",
}

func testInit(c *sqlite.Conn) error {
	if err := c.SetBusyTimeout(5000); err != nil {
		return err
	}
	return c.ExecScript(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=OFF;
		CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, val TEXT);
	`)
}

type testTracer struct {
	mu     sync.Mutex
	events []string
}

func (t *testTracer) Acquire(ctx context.Context, id ConnID, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.events = append(t.events, fmt.Sprintf("acquire %d: %v", id, err))
		return
	}
	t.events = append(t.events, fmt.Sprintf("acquire %d", id))
}

func (t *testTracer) Release(id ConnID, held time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if held < 0 {
		panic("negative hold time")
	}
	t.events = append(t.events, fmt.Sprintf("release %d", id))
}

func (t *testTracer) take() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev := t.events
	t.events = nil
	return ev
}

func newTestPool(t *testing.T, size int, tracer Tracer) *Pool[query] {
	t.Helper()
	p, err := NewPool(Options[query]{
		Path:    filepath.Join(t.TempDir(), "sqlitepool_test.db"),
		Size:    size,
		Queries: testQueries,
		Init:    testInit,
		Tracer:  tracer,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewPoolOptions(t *testing.T) {
	if _, err := NewPool(Options[query]{Path: "x.db"}); err == nil {
		t.Error("Size=0 did not fail")
	}
	if _, err := NewPool(Options[query]{Size: 1}); !errors.Is(err, sqlite.ErrInvalidArgument) {
		t.Errorf("empty Path: err=%v, want ErrInvalidArgument", err)
	}
}

func TestPool(t *testing.T) {
	ctx := context.Background()
	tracer := &testTracer{}
	p := newTestPool(t, 2, tracer)
	if got := p.Open(); got != 0 {
		t.Fatalf("Open()=%d before first Get, want 0", got)
	}

	l1, err := p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := l1.Exec(qInsert, 1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := l1.Exec(qInsert, 2, "b"); err != nil {
		t.Fatal(err)
	}
	l2, err := p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if l1.ID() == l2.ID() {
		t.Fatalf("two leases share connection %d", l1.ID())
	}
	if got := p.Open(); got != 2 {
		t.Fatalf("Open()=%d, want 2", got)
	}

	var count int
	if err := l2.QueryRow(qCount).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count=%d, want 2", count)
	}

	ctxCancel, cancel := context.WithCancel(ctx)
	getErr := make(chan error, 1)
	go func() {
		l3, err := p.Get(ctxCancel)
		if err != nil {
			getErr <- err
			return
		}
		l3.Release()
		getErr <- errors.New("Get on a full pool did not block")
	}()
	cancel()
	if err := <-getErr; err != context.Canceled {
		t.Fatalf("full pool: err=%v, want context.Canceled", err)
	}

	id1 := l1.ID()
	l1.Release()
	l1.Release() // no-op
	func() {
		defer func() {
			if r := recover(); r != "sqlitepool: Lease used after Release" {
				t.Fatalf("Conn after Release: recover=%v", r)
			}
		}()
		l1.Conn()
	}()

	l1, err = p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if l1.ID() != id1 {
		t.Errorf("reused lease has ID %d, want free connection %d", l1.ID(), id1)
	}
	if got := p.Open(); got != 2 {
		t.Errorf("Open()=%d after reuse, want 2", got)
	}
	l1.Release()

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err == nil {
		t.Fatal("second Close did not fail")
	}
	if got := p.Open(); got != 1 {
		t.Errorf("Open()=%d after Close with one lease out, want 1", got)
	}
	if _, err := p.Get(ctx); !errors.Is(err, ErrPoolClosed) || !errors.Is(err, context.Canceled) {
		t.Errorf("Get after Close: err=%v, want ErrPoolClosed", err)
	}
	l2.Release()
	if got := p.Open(); got != 0 {
		t.Errorf("Open()=%d after last Release, want 0", got)
	}

	want := []string{
		"acquire 0",
		"acquire 1",
		"acquire -1: context canceled",
		"release 0",
		"acquire 0",
		"release 0",
		"acquire -1: context canceled: sqlitepool closed",
		"release 1",
	}
	if diff := cmp.Diff(want, tracer.take()); diff != "" {
		t.Errorf("tracer events (-want +got):\n%s", diff)
	}
}

func TestReleaseResetsStatements(t *testing.T) {
	ctx := context.Background()
	p := newTestPool(t, 1, nil)
	defer p.Close()

	l, err := p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Exec(qInsert, 1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := l.Exec(qInsert, 2, "b"); err != nil {
		t.Fatal(err)
	}
	// Leave a query mid-result.
	rows, err := l.Query(qGet, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !rows.Next() {
		t.Fatalf("no row: %v", rows.Err())
	}
	l.Release()

	l, err = p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Release()
	// The parameter from the previous lease was cleared, so this is
	// WHERE id = NULL.
	if row, err := l.Stmt(qGet).TryNewRowStep(); err != nil {
		t.Fatal(err)
	} else if row {
		t.Fatal("statement kept a binding across leases")
	}
	l.Stmt(qGet).Reset()

	var val string
	if err := l.QueryRow(qGet, 2).Scan(&val); err != nil {
		t.Fatal(err)
	}
	if val != "b" {
		t.Errorf("val=%q, want %q", val, "b")
	}
}

func TestReleaseRollsBack(t *testing.T) {
	ctx := context.Background()
	p := newTestPool(t, 1, nil)
	defer p.Close()

	l, err := p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Conn().ExecNonQuery("BEGIN;"); err != nil {
		t.Fatal(err)
	}
	if err := l.Exec(qInsert, 1, "a"); err != nil {
		t.Fatal(err)
	}
	l.Release()

	l, err = p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Release()
	if !l.Conn().AutoCommit() {
		t.Fatal("connection returned with a transaction open")
	}
	var count int
	if err := l.QueryRow(qCount).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count=%d, want 0 after rollback", count)
	}
	if got := p.Open(); got != 1 {
		t.Errorf("Open()=%d, want 1", got)
	}
}

func TestPoolInitError(t *testing.T) {
	initErr := errors.New("init failed")
	p, err := NewPool(Options[query]{
		Path:    filepath.Join(t.TempDir(), "init.db"),
		Size:    1,
		Queries: testQueries,
		Init:    func(*sqlite.Conn) error { return initErr },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if _, err := p.Get(context.Background()); !errors.Is(err, initErr) {
		t.Fatalf("err=%v, want %v", err, initErr)
	}
	if got := p.Open(); got != 0 {
		t.Errorf("Open()=%d after failed open, want 0", got)
	}
}

func TestPoolWaiterOpensFailedSlot(t *testing.T) {
	initErr := errors.New("init failed")
	started := make(chan struct{})
	proceed := make(chan struct{})
	var calls int
	p, err := NewPool(Options[query]{
		Path:    filepath.Join(t.TempDir(), "slot.db"),
		Size:    1,
		Queries: testQueries,
		Init: func(c *sqlite.Conn) error {
			calls++ // serialized by Size=1
			if calls == 1 {
				close(started)
				<-proceed
				return initErr
			}
			return testInit(c)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	firstErr := make(chan error, 1)
	go func() {
		_, err := p.Get(context.Background())
		firstErr <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	type result struct {
		l   *Lease[query]
		err error
	}
	second := make(chan result, 1)
	go func() {
		l, err := p.Get(ctx)
		second <- result{l, err}
	}()
	time.Sleep(50 * time.Millisecond) // let the second Get start waiting
	close(proceed)

	if err := <-firstErr; !errors.Is(err, initErr) {
		t.Fatalf("first Get: err=%v, want %v", err, initErr)
	}
	res := <-second
	if res.err != nil {
		t.Fatalf("second Get: %v", res.err)
	}
	defer res.l.Release()
	if got := p.Open(); got != 1 {
		t.Errorf("Open()=%d, want 1", got)
	}
}

func TestPoolBadQuery(t *testing.T) {
	p, err := NewPool(Options[query]{
		Path:    filepath.Join(t.TempDir(), "bad.db"),
		Size:    1,
		Queries: map[query]string{qCount: "SELECT count(*) FROM missing;"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	_, err = p.Get(context.Background())
	if err == nil || !strings.Contains(err.Error(), "query1") || !strings.Contains(err.Error(), "no such table") {
		t.Fatalf("err=%v, want a prepare error naming query1", err)
	}
}

func TestPoolConcurrent(t *testing.T) {
	ctx := context.Background()
	const size, workers, iters = 3, 8, 20
	p := newTestPool(t, size, nil)
	defer p.Close()

	var mu sync.Mutex
	inUse := make(map[ConnID]bool)
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				l, err := p.Get(ctx)
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				if inUse[l.ID()] {
					mu.Unlock()
					errs <- fmt.Errorf("connection %d leased twice", l.ID())
					return
				}
				inUse[l.ID()] = true
				mu.Unlock()

				err = l.Exec(qInsert, nil, "x")

				mu.Lock()
				inUse[l.ID()] = false
				mu.Unlock()
				l.Release()
				if err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if got := p.Open(); got > size {
		t.Errorf("Open()=%d, want at most %d", got, size)
	}

	l, err := p.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Release()
	var count int
	if err := l.QueryRow(qCount).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != workers*iters {
		t.Errorf("count=%d, want %d", count, workers*iters)
	}
}

func TestStmtCache(t *testing.T) {
	conn, err := sqlite.CreateTemporaryInMemoryDB()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := testInit(conn); err != nil {
		t.Fatal(err)
	}

	c, err := NewStmtCache(conn, testQueries)
	if err != nil {
		t.Fatal(err)
	}
	if c.Conn() != conn {
		t.Error("Conn() is not the connection the cache was built on")
	}
	if got, want := c.Get(qCount).SQL(), testQueries[qCount]; got != want {
		t.Errorf("SQL()=%q, want %q", got, want)
	}
	if c.Get(qInsert) != c.Get(qInsert) {
		t.Error("Get returned different statements for one key")
	}
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("Get of an unknown key did not panic")
			}
		}()
		c.Get(query(99))
	}()
	stmt := c.Get(qCount)
	c.Close()
	if _, err := stmt.Step(); !errors.Is(err, sqlite.ErrClosed) {
		t.Errorf("Step after cache Close: err=%v, want ErrClosed", err)
	}

	_, err = NewStmtCache(conn, map[string]string{
		"ok":  "SELECT 1;",
		"bad": "SELEKT 1;",
	})
	if err == nil || !strings.Contains(err.Error(), "query bad") {
		t.Fatalf("err=%v, want an error naming query bad", err)
	}
}
