//go:build darwin || linux

package puregosqlite

import (
	"math"
	"runtime"
	"unsafe"

	"github.com/tailscale/sqlitebind/sqliteh"
	"go4.org/mem"
)

var (
	_ sqliteh.DB   = (*DB)(nil)
	_ sqliteh.Stmt = (*Stmt)(nil)
)

// DB is an sqlite3* database connection object.
type DB struct {
	db uintptr
}

// Stmt is an sqlite3_stmt* prepared statement object.
type Stmt struct {
	db   *DB
	stmt uintptr
}

// Open is sqlite3_open_v2. Load must have succeeded first.
//
// Surprisingly: an error opening the DB can return a non-nil handle.
// Call Close on it.
func Open(filename []byte, flags sqliteh.OpenFlags, vfs []byte) (*DB, error) {
	if c_sqlite3_open_v2 == nil {
		return nil, loadErrOrMissing()
	}
	if !sqliteh.IsCString(filename) || (vfs != nil && !sqliteh.IsCString(vfs)) {
		return nil, sqliteh.CodeAsError(sqliteh.SQLITE_MISUSE)
	}
	var zVfs unsafe.Pointer
	if vfs != nil {
		zVfs = unsafe.Pointer(&vfs[0])
	}
	var cdb uintptr
	res := c_sqlite3_open_v2(unsafe.Pointer(&filename[0]), unsafe.Pointer(&cdb), int32(flags), zVfs)
	runtime.KeepAlive(filename)
	runtime.KeepAlive(vfs)
	var db *DB
	if cdb != 0 {
		db = &DB{db: cdb}
	}
	return db, errCode(res)
}

func loadErrOrMissing() error {
	if loadErr != nil {
		return loadErr
	}
	return errNotLoaded
}

// Close is sqlite3_close.
func (db *DB) Close() error {
	return errCode(c_sqlite3_close(db.db))
}

// ErrMsg is sqlite3_errmsg.
func (db *DB) ErrMsg() string {
	return cstr(c_sqlite3_errmsg(db.db))
}

// ExtendedErrCode is sqlite3_extended_errcode.
func (db *DB) ExtendedErrCode() sqliteh.Code {
	return sqliteh.Code(c_sqlite3_extended_errcode(db.db))
}

// ExtendedResultCodes is sqlite3_extended_result_codes.
func (db *DB) ExtendedResultCodes(on bool) error {
	var onoff int32
	if on {
		onoff = 1
	}
	return errCode(c_sqlite3_extended_result_codes(db.db, onoff))
}

// BusyTimeout is sqlite3_busy_timeout.
func (db *DB) BusyTimeout(ms int) error {
	return errCode(c_sqlite3_busy_timeout(db.db, int32(ms)))
}

// Changes is sqlite3_changes.
func (db *DB) Changes() int {
	return int(c_sqlite3_changes(db.db))
}

// LastInsertRowid is sqlite3_last_insert_rowid.
func (db *DB) LastInsertRowid() int64 {
	return c_sqlite3_last_insert_rowid(db.db)
}

// AutoCommit is sqlite3_get_autocommit.
func (db *DB) AutoCommit() bool {
	return c_sqlite3_get_autocommit(db.db) != 0
}

// Prepare is sqlite3_prepare_v3.
func (db *DB) Prepare(query []byte, prepFlags sqliteh.PrepareFlags) (stmt sqliteh.Stmt, tail int, err error) {
	if !sqliteh.IsCString(query) || len(query) > math.MaxInt32 {
		return nil, 0, sqliteh.CodeAsError(sqliteh.SQLITE_MISUSE)
	}
	base := unsafe.Pointer(&query[0])
	var cstmt, ctail uintptr
	res := c_sqlite3_prepare_v3(db.db, base, int32(len(query)), uint32(prepFlags), unsafe.Pointer(&cstmt), unsafe.Pointer(&ctail))
	tail = len(query) - 1
	if ctail != 0 {
		tail = int(ctail - uintptr(base))
	}
	runtime.KeepAlive(query)
	if err := errCode(res); err != nil {
		return nil, 0, err
	}
	if cstmt == 0 {
		return nil, tail, nil
	}
	return &Stmt{db: db, stmt: cstmt}, tail, nil
}

// SQL is sqlite3_sql.
func (stmt *Stmt) SQL() string {
	return cstr(c_sqlite3_sql(stmt.stmt))
}

// Reset is sqlite3_reset.
func (stmt *Stmt) Reset() error {
	return errCode(c_sqlite3_reset(stmt.stmt))
}

// Finalize is sqlite3_finalize.
func (stmt *Stmt) Finalize() error {
	return errCode(c_sqlite3_finalize(stmt.stmt))
}

// ClearBindings is sqlite3_clear_bindings.
func (stmt *Stmt) ClearBindings() error {
	return errCode(c_sqlite3_clear_bindings(stmt.stmt))
}

// Step is sqlite3_step.
func (stmt *Stmt) Step() (sqliteh.Code, error) {
	res := sqliteh.Code(c_sqlite3_step(stmt.stmt))
	return res, sqliteh.CodeAsError(res)
}

// BindDouble is sqlite3_bind_double.
func (stmt *Stmt) BindDouble(col int, val float64) error {
	return errCode(c_sqlite3_bind_double(stmt.stmt, int32(col), val))
}

// BindInt is sqlite3_bind_int.
func (stmt *Stmt) BindInt(col int, val int32) error {
	return errCode(c_sqlite3_bind_int(stmt.stmt, int32(col), val))
}

// BindInt64 is sqlite3_bind_int64.
func (stmt *Stmt) BindInt64(col int, val int64) error {
	return errCode(c_sqlite3_bind_int64(stmt.stmt, int32(col), val))
}

// BindNull is sqlite3_bind_null.
func (stmt *Stmt) BindNull(col int) error {
	return errCode(c_sqlite3_bind_null(stmt.stmt, int32(col)))
}

var emptyText = []byte{0}

// BindText is sqlite3_bind_text with SQLITE_TRANSIENT.
func (stmt *Stmt) BindText(col int, val []byte) error {
	if len(val) > math.MaxInt32 {
		return sqliteh.CodeAsError(sqliteh.SQLITE_TOOBIG)
	}
	// A NULL pointer would bind SQL NULL, not "".
	p := unsafe.Pointer(&emptyText[0])
	if len(val) > 0 {
		p = unsafe.Pointer(&val[0])
	}
	res := c_sqlite3_bind_text(stmt.stmt, int32(col), p, int32(len(val)), sqliteTransient)
	runtime.KeepAlive(val)
	return errCode(res)
}

// BindBlob is sqlite3_bind_blob with SQLITE_TRANSIENT.
func (stmt *Stmt) BindBlob(col int, val []byte) error {
	if len(val) == 0 {
		return errCode(c_sqlite3_bind_zeroblob(stmt.stmt, int32(col), 0))
	}
	if len(val) > math.MaxInt32 {
		return sqliteh.CodeAsError(sqliteh.SQLITE_TOOBIG)
	}
	res := c_sqlite3_bind_blob(stmt.stmt, int32(col), unsafe.Pointer(&val[0]), int32(len(val)), sqliteTransient)
	runtime.KeepAlive(val)
	return errCode(res)
}

// BindZeroBlob is sqlite3_bind_zeroblob.
func (stmt *Stmt) BindZeroBlob(col int, n int32) error {
	return errCode(c_sqlite3_bind_zeroblob(stmt.stmt, int32(col), n))
}

// BindZeroBlob64 is sqlite3_bind_zeroblob64.
func (stmt *Stmt) BindZeroBlob64(col int, n uint64) error {
	return errCode(c_sqlite3_bind_zeroblob64(stmt.stmt, int32(col), n))
}

// BindParameterCount is sqlite3_bind_parameter_count.
func (stmt *Stmt) BindParameterCount() int {
	return int(c_sqlite3_bind_parameter_count(stmt.stmt))
}

// BindParameterIndex is sqlite3_bind_parameter_index.
func (stmt *Stmt) BindParameterIndex(name []byte) int {
	if !sqliteh.IsCString(name) {
		return 0
	}
	i := c_sqlite3_bind_parameter_index(stmt.stmt, unsafe.Pointer(&name[0]))
	runtime.KeepAlive(name)
	return int(i)
}

// ColumnCount is sqlite3_column_count.
func (stmt *Stmt) ColumnCount() int {
	return int(c_sqlite3_column_count(stmt.stmt))
}

// ColumnName is sqlite3_column_name.
func (stmt *Stmt) ColumnName(col int) string {
	return cstr(c_sqlite3_column_name(stmt.stmt, int32(col)))
}

// ColumnType is sqlite3_column_type.
func (stmt *Stmt) ColumnType(col int) sqliteh.ColumnType {
	return sqliteh.ColumnType(c_sqlite3_column_type(stmt.stmt, int32(col)))
}

// ColumnDouble is sqlite3_column_double.
func (stmt *Stmt) ColumnDouble(col int) float64 {
	return c_sqlite3_column_double(stmt.stmt, int32(col))
}

// ColumnInt64 is sqlite3_column_int64.
func (stmt *Stmt) ColumnInt64(col int) int64 {
	return c_sqlite3_column_int64(stmt.stmt, int32(col))
}

// ColumnText is sqlite3_column_text.
//
// WARNING: The returned memory is managed by C and is only valid until
//          another call is made on this Stmt.
func (stmt *Stmt) ColumnText(col int) mem.RO {
	p := c_sqlite3_column_text(stmt.stmt, int32(col))
	n := c_sqlite3_column_bytes(stmt.stmt, int32(col))
	return view(p, int(n))
}

// ColumnBlob is sqlite3_column_blob.
//
// WARNING: The returned memory is managed by C and is only valid until
//          another call is made on this Stmt.
func (stmt *Stmt) ColumnBlob(col int) mem.RO {
	p := c_sqlite3_column_blob(stmt.stmt, int32(col))
	n := c_sqlite3_column_bytes(stmt.stmt, int32(col))
	return view(p, int(n))
}

func view(p uintptr, n int) mem.RO {
	if p == 0 || n <= 0 {
		return mem.RO{}
	}
	return mem.B(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
