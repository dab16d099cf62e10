package sqlite

import (
	"sync/atomic"

	"github.com/tailscale/sqlitebind/sqliteh"
)

// connHandle owns one native connection. A nil db is the sentinel for
// "no handle".
type connHandle struct {
	db         sqliteh.DB
	released   atomic.Bool
	releaseErr error // result of sqlite3_close, set by the first release
}

func (h *connHandle) valid() bool {
	return h != nil && h.db != nil && !h.released.Load()
}

// release closes the connection the first time it is called.
// Later calls do nothing. Failures are recorded in releaseErr.
func (h *connHandle) release() {
	if h == nil || h.db == nil {
		return
	}
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	h.releaseErr = h.db.Close()
}

// stmtHandle owns one native statement. It must be released before the
// connHandle it was prepared on.
type stmtHandle struct {
	stmt       sqliteh.Stmt
	released   atomic.Bool
	releaseErr error // result of sqlite3_finalize, set by the first release
}

func (h *stmtHandle) valid() bool {
	return h != nil && h.stmt != nil && !h.released.Load()
}

func (h *stmtHandle) release() {
	if h == nil || h.stmt == nil {
		return
	}
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	h.releaseErr = h.stmt.Finalize()
}
