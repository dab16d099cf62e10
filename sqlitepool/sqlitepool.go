// Package sqlitepool implements a pool of SQLite database connections,
// each carrying the same set of prepared statements.
package sqlitepool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	sqlite "github.com/tailscale/sqlitebind"
	"github.com/tailscale/sqlitebind/sqliteh"
)

// ConnID identifies one pooled connection to a Tracer.
// IDs are assigned in opening order starting at 0.
type ConnID int

// Tracer is notified as connections are leased and returned.
type Tracer interface {
	// Acquire is called when Pool.Get finishes. On failure id is -1.
	Acquire(ctx context.Context, id ConnID, err error)
	// Release is called when a lease ends, with how long it was held.
	Release(id ConnID, held time.Duration)
}

// Options configures a Pool.
type Options[K comparable] struct {
	// Path is the database filename passed to sqlite.OpenConn.
	Path string
	// Flags are the open flags. Zero means read-write, creating the
	// database if needed.
	Flags sqliteh.OpenFlags
	// Size is the maximum number of open connections.
	Size int
	// Queries are prepared on every connection and reached through
	// Lease.Stmt.
	Queries map[K]string
	// Init, if non-nil, runs on each new connection before its queries
	// are prepared.
	Init func(*sqlite.Conn) error
	// Tracer, if non-nil, reports the use of the Pool.
	Tracer Tracer
}

// A Pool is a bounded pool of SQLite database connections.
// Connections are opened as demand requires, up to Options.Size.
//
// A Pool is safe for concurrent use. A connection is only ever leased
// to one caller at a time.
type Pool[K comparable] struct {
	opts   Options[K]
	free   chan *entry[K] // cap == opts.Size
	closed chan struct{}

	mu      sync.Mutex
	open    int // entries in existence, leased or free
	nextID  ConnID
	closing bool
	freed   chan struct{} // closed and replaced when open drops
}

type entry[K comparable] struct {
	id    ConnID
	conn  *sqlite.Conn
	stmts *StmtCache[K]
}

// ErrPoolClosed is returned by Get after Close.
var ErrPoolClosed = fmt.Errorf("%w: sqlitepool closed", context.Canceled)

// NewPool creates a Pool. No connection is opened until the first Get.
func NewPool[K comparable](opts Options[K]) (*Pool[K], error) {
	if opts.Size < 1 {
		return nil, fmt.Errorf("sqlitepool.NewPool: Size=%d is too small", opts.Size)
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("sqlitepool.NewPool: %w: empty Path", sqlite.ErrInvalidArgument)
	}
	if opts.Flags == 0 {
		opts.Flags = sqliteh.SQLITE_OPEN_READWRITE | sqliteh.SQLITE_OPEN_CREATE
	}
	return &Pool[K]{
		opts:   opts,
		free:   make(chan *entry[K], opts.Size),
		closed: make(chan struct{}),
		freed:  make(chan struct{}),
	}, nil
}

func (p *Pool[K]) openEntry(id ConnID) (e *entry[K], err error) {
	conn, err := sqlite.OpenConn(p.opts.Path, p.opts.Flags)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			conn.Close()
		}
	}()
	if p.opts.Init != nil {
		if err := p.opts.Init(conn); err != nil {
			return nil, err
		}
	}
	stmts, err := NewStmtCache(conn, p.opts.Queries)
	if err != nil {
		return nil, err
	}
	return &entry[K]{id: id, conn: conn, stmts: stmts}, nil
}

func (e *entry[K]) close() {
	e.stmts.Close()
	e.conn.Close()
}

// reserve claims a slot for a new connection. If none is available it
// returns a channel that is closed when a slot is given back.
func (p *Pool[K]) reserve() (id ConnID, freed <-chan struct{}, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closing || p.open >= p.opts.Size {
		return 0, p.freed, false
	}
	p.open++
	id = p.nextID
	p.nextID++
	return id, nil, true
}

// discard closes e, or releases the reservation if e is nil.
func (p *Pool[K]) discard(e *entry[K]) {
	if e != nil {
		e.close()
	}
	p.mu.Lock()
	p.open--
	close(p.freed)
	p.freed = make(chan struct{})
	p.mu.Unlock()
}

func (p *Pool[K]) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

// Get leases a connection, waiting until one is free, ctx is done, or
// the pool is closed.
// The caller must call Lease.Release when done.
func (p *Pool[K]) Get(ctx context.Context) (*Lease[K], error) {
	e, err := p.get(ctx)
	if p.opts.Tracer != nil {
		id := ConnID(-1)
		if e != nil {
			id = e.id
		}
		p.opts.Tracer.Acquire(ctx, id, err)
	}
	if err != nil {
		return nil, err
	}
	return &Lease[K]{p: p, e: e, start: time.Now()}, nil
}

func (p *Pool[K]) get(ctx context.Context) (*entry[K], error) {
	for {
		select {
		case <-p.closed:
			return nil, ErrPoolClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		case e := <-p.free:
			return p.checkClosed(e)
		default:
		}

		id, freed, ok := p.reserve()
		if ok {
			e, err := p.openEntry(id)
			if err != nil {
				p.discard(nil)
				return nil, fmt.Errorf("sqlitepool.Get: %w", err)
			}
			return p.checkClosed(e)
		}

		// Wait for a free entry, or for a slot to open up again after
		// a connection was closed or failed to open.
		select {
		case <-p.closed:
			return nil, ErrPoolClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		case e := <-p.free:
			return p.checkClosed(e)
		case <-freed:
		}
	}
}

func (p *Pool[K]) checkClosed(e *entry[K]) (*entry[K], error) {
	if p.isClosed() {
		// Close raced with us and cannot see this entry.
		p.discard(e)
		return nil, ErrPoolClosed
	}
	return e, nil
}

// put returns e to the free list, or closes it if the pool is closed.
func (p *Pool[K]) put(e *entry[K]) {
	p.mu.Lock()
	if !p.closing {
		p.free <- e // can't block, buffer is big enough
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.discard(e)
}

// Open reports how many connections the pool holds, leased or free.
func (p *Pool[K]) Open() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Close closes every free connection and makes later calls to Get fail.
// Connections on lease are closed when they are released.
func (p *Pool[K]) Close() error {
	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		return errors.New("sqlitepool: pool already closed")
	}
	p.closing = true
	close(p.closed)
	var idle []*entry[K]
	for done := false; !done; {
		select {
		case e := <-p.free:
			idle = append(idle, e)
		default:
			done = true
		}
	}
	p.mu.Unlock()

	for _, e := range idle {
		p.discard(e)
	}
	return nil
}

// Lease is a connection checked out of a Pool.
//
// It is *not* safe for concurrent use.
type Lease[K comparable] struct {
	p     *Pool[K]
	e     *entry[K] // nil after Release
	start time.Time
}

func (l *Lease[K]) entry() *entry[K] {
	if l.e == nil {
		panic("sqlitepool: Lease used after Release")
	}
	return l.e
}

// ID reports which pooled connection the lease holds.
func (l *Lease[K]) ID() ConnID { return l.entry().id }

// Conn returns the leased connection.
//
// Statements prepared directly on it live as long as the connection,
// not the lease, so callers should close them before Release.
func (l *Lease[K]) Conn() *sqlite.Conn { return l.entry().conn }

// Stmt returns the connection's prepared statement for k.
// It panics if k is not a key of Options.Queries.
func (l *Lease[K]) Stmt(k K) *sqlite.Stmt { return l.entry().stmts.Get(k) }

// Release resets the connection's statements and returns it to the pool.
// It is a no-op if the lease is already released.
//
// A transaction left open by the holder is rolled back. If that fails
// the connection is closed instead of being returned.
func (l *Lease[K]) Release() {
	e := l.e
	if e == nil {
		return
	}
	l.e = nil
	e.stmts.Reset()
	var rollbackErr error
	if !e.conn.AutoCommit() {
		rollbackErr = e.conn.ExecNonQuery("ROLLBACK;")
	}
	if t := l.p.opts.Tracer; t != nil {
		t.Release(e.id, time.Since(l.start))
	}
	if rollbackErr != nil {
		l.p.discard(e)
		return
	}
	l.p.put(e)
}
