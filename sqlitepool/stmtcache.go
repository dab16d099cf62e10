package sqlitepool

import (
	"fmt"

	sqlite "github.com/tailscale/sqlitebind"
)

// StmtCache holds a fixed set of prepared statements on one connection,
// looked up by a caller-defined key (usually a small enum).
//
// It is *not* safe for concurrent use.
type StmtCache[K comparable] struct {
	conn  *sqlite.Conn
	stmts map[K]*sqlite.Stmt
}

// NewStmtCache prepares every query on conn.
//
// If any query fails to prepare, the statements already prepared are
// closed and the error names the key of the failing query.
func NewStmtCache[K comparable](conn *sqlite.Conn, queries map[K]string) (*StmtCache[K], error) {
	c := &StmtCache[K]{
		conn:  conn,
		stmts: make(map[K]*sqlite.Stmt, len(queries)),
	}
	for k, q := range queries {
		s, err := conn.Prepare(q)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("sqlitepool.NewStmtCache: query %v: %w", k, err)
		}
		c.stmts[k] = s
	}
	return c, nil
}

// Conn returns the connection the statements were prepared on.
func (c *StmtCache[K]) Conn() *sqlite.Conn { return c.conn }

// Get returns the statement for k.
//
// The queries are constant strings fixed when the cache is built, so an
// unknown key is a program bug and Get panics.
func (c *StmtCache[K]) Get(k K) *sqlite.Stmt {
	s, ok := c.stmts[k]
	if !ok {
		panic(fmt.Sprintf("sqlitepool: no statement for key %v", k))
	}
	return s
}

// Reset resets every statement and clears its bindings.
func (c *StmtCache[K]) Reset() {
	for _, s := range c.stmts {
		// Reset repeats the error of the last step, if any.
		// The statement is reset either way.
		s.Reset()
		s.ClearBindings()
	}
}

// Close closes every statement. The connection stays open.
func (c *StmtCache[K]) Close() error {
	for _, s := range c.stmts {
		s.Close()
	}
	c.stmts = nil
	return nil
}
