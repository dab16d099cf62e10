package cgosqlite

// The system libsqlite3 is used as-is. SQLITE_CONFIG_LOG must be set
// before sqlite3_initialize, so there is no init-time initialize here;
// Library.SetLogCallback does both in the required order.

// #cgo LDFLAGS: -lsqlite3
// #cgo linux LDFLAGS: -ldl -lm
//
// #include <stdint.h>
// #include <stdlib.h>
// #include <sqlite3.h>
//
// extern void logCallbackGo(void* p0, int p1, char* p2);
//
// static int bind_text_transient(sqlite3_stmt* stmt, int col, const char* p, int n) {
// 	return sqlite3_bind_text(stmt, col, p, n, SQLITE_TRANSIENT);
// }
//
// static int bind_blob_transient(sqlite3_stmt* stmt, int col, const void* p, int n) {
// 	return sqlite3_bind_blob(stmt, col, p, n, SQLITE_TRANSIENT);
// }
//
// static int config_log(int on) {
// 	if (!on) {
// 		return sqlite3_config(SQLITE_CONFIG_LOG, (void*)0, (void*)0);
// 	}
// 	return sqlite3_config(SQLITE_CONFIG_LOG, (void(*)(void*,int,const char*))logCallbackGo, (void*)0);
// }
import "C"
import (
	"math"
	"unsafe"

	"github.com/tailscale/sqlitebind/sqliteh"
	"go4.org/mem"
)

var (
	_ sqliteh.Library = Library{}
	_ sqliteh.DB      = (*DB)(nil)
	_ sqliteh.Stmt    = (*Stmt)(nil)
)

// Library is the process's linked libsqlite3.
type Library struct{}

// Open implements sqliteh.Library.
func (Library) Open(filename []byte, flags sqliteh.OpenFlags, vfs []byte) (sqliteh.DB, error) {
	db, err := Open(filename, flags, vfs)
	if db == nil {
		return nil, err
	}
	return db, err
}

// ErrStr is sqlite3_errstr.
// https://sqlite.org/c3ref/errcode.html
func (Library) ErrStr(code sqliteh.Code) string {
	return sqliteh.GoStringOrEmpty(unsafe.Pointer(C.sqlite3_errstr(C.int(code))))
}

// LibVersion is sqlite3_libversion.
// https://sqlite.org/c3ref/libversion.html
func (Library) LibVersion() string {
	return sqliteh.GoStringOrEmpty(unsafe.Pointer(C.sqlite3_libversion()))
}

// SetLogCallback implements sqliteh.Library.
func (Library) SetLogCallback(fn sqliteh.LogFunc) error {
	on := C.int(0)
	if fn != nil {
		on = 1
	}
	logFunc.Store(&fn)
	if err := errCode(C.config_log(on)); err != nil {
		return err
	}
	return errCode(C.sqlite3_initialize())
}

// DB is an sqlite3* database connection object.
// https://sqlite.org/c3ref/sqlite3.html
type DB struct {
	db *C.sqlite3
}

// Stmt is an sqlite3_stmt* database connection object.
// https://sqlite.org/c3ref/stmt.html
type Stmt struct {
	db   *DB
	stmt *C.sqlite3_stmt
}

// Open is sqlite3_open_v2.
//
// The filename and a non-nil vfs must be NUL-terminated.
//
// Surprisingly: an error opening the DB can return a non-nil handle.
// Call Close on it.
//
// https://sqlite.org/c3ref/open.html
func Open(filename []byte, flags sqliteh.OpenFlags, vfs []byte) (*DB, error) {
	if !sqliteh.IsCString(filename) {
		return nil, sqliteh.CodeAsError(sqliteh.SQLITE_MISUSE)
	}
	cfilename := (*C.char)(unsafe.Pointer(&filename[0]))
	cvfs := (*C.char)(nil)
	if vfs != nil {
		if !sqliteh.IsCString(vfs) {
			return nil, sqliteh.CodeAsError(sqliteh.SQLITE_MISUSE)
		}
		cvfs = (*C.char)(unsafe.Pointer(&vfs[0]))
	}

	var cdb *C.sqlite3
	res := C.sqlite3_open_v2(cfilename, &cdb, C.int(flags), cvfs)
	var db *DB
	if cdb != nil {
		db = &DB{db: cdb}
	}
	return db, errCode(res)
}

// Close is sqlite3_close.
// https://sqlite.org/c3ref/close.html
func (db *DB) Close() error {
	return errCode(C.sqlite3_close(db.db))
}

// ErrMsg is sqlite3_errmsg.
// https://sqlite.org/c3ref/errcode.html
func (db *DB) ErrMsg() string {
	return sqliteh.GoStringOrEmpty(unsafe.Pointer(C.sqlite3_errmsg(db.db)))
}

// ExtendedErrCode is sqlite3_extended_errcode.
// https://sqlite.org/c3ref/errcode.html
func (db *DB) ExtendedErrCode() sqliteh.Code {
	return sqliteh.Code(C.sqlite3_extended_errcode(db.db))
}

// ExtendedResultCodes is sqlite3_extended_result_codes.
// https://sqlite.org/c3ref/extended_result_codes.html
func (db *DB) ExtendedResultCodes(on bool) error {
	onoff := C.int(0)
	if on {
		onoff = 1
	}
	return errCode(C.sqlite3_extended_result_codes(db.db, onoff))
}

// BusyTimeout is sqlite3_busy_timeout.
// https://www.sqlite.org/c3ref/busy_timeout.html
func (db *DB) BusyTimeout(ms int) error {
	return errCode(C.sqlite3_busy_timeout(db.db, C.int(ms)))
}

// Changes is sqlite3_changes.
// https://sqlite.org/c3ref/changes.html
func (db *DB) Changes() int {
	return int(C.sqlite3_changes(db.db))
}

// LastInsertRowid is sqlite3_last_insert_rowid.
// https://sqlite.org/c3ref/last_insert_rowid.html
func (db *DB) LastInsertRowid() int64 {
	return int64(C.sqlite3_last_insert_rowid(db.db))
}

// AutoCommit is sqlite3_get_autocommit.
// https://sqlite.org/c3ref/get_autocommit.html
func (db *DB) AutoCommit() bool {
	return C.sqlite3_get_autocommit(db.db) != 0
}

// Prepare is sqlite3_prepare_v3.
// https://www.sqlite.org/c3ref/prepare.html
func (db *DB) Prepare(query []byte, prepFlags sqliteh.PrepareFlags) (stmt sqliteh.Stmt, tail int, err error) {
	if !sqliteh.IsCString(query) || len(query) > math.MaxInt32 {
		return nil, 0, sqliteh.CodeAsError(sqliteh.SQLITE_MISUSE)
	}
	csql := (*C.char)(unsafe.Pointer(&query[0]))

	var cstmt *C.sqlite3_stmt
	var csqlTail *C.char
	res := C.sqlite3_prepare_v3(db.db, csql, C.int(len(query)), C.uint(prepFlags), &cstmt, &csqlTail)
	if err := errCode(res); err != nil {
		return nil, 0, err
	}
	tail = len(query) - 1
	if csqlTail != nil {
		tail = int(uintptr(unsafe.Pointer(csqlTail)) - uintptr(unsafe.Pointer(csql)))
	}
	if cstmt == nil {
		return nil, tail, nil
	}
	return &Stmt{db: db, stmt: cstmt}, tail, nil
}

// SQL is sqlite3_sql.
// https://www.sqlite.org/c3ref/expanded_sql.html
func (stmt *Stmt) SQL() string {
	return sqliteh.GoStringOrEmpty(unsafe.Pointer(C.sqlite3_sql(stmt.stmt)))
}

// Reset is sqlite3_reset.
// https://www.sqlite.org/c3ref/reset.html
func (stmt *Stmt) Reset() error {
	return errCode(C.sqlite3_reset(stmt.stmt))
}

// Finalize is sqlite3_finalize.
// https://sqlite.org/c3ref/finalize.html
func (stmt *Stmt) Finalize() error {
	return errCode(C.sqlite3_finalize(stmt.stmt))
}

// ClearBindings sqlite3_clear_bindings.
//
// https://www.sqlite.org/c3ref/clear_bindings.html
func (stmt *Stmt) ClearBindings() error {
	return errCode(C.sqlite3_clear_bindings(stmt.stmt))
}

// Step is sqlite3_step.
// https://www.sqlite.org/c3ref/step.html
func (stmt *Stmt) Step() (sqliteh.Code, error) {
	res := sqliteh.Code(C.sqlite3_step(stmt.stmt))
	return res, sqliteh.CodeAsError(res)
}

// BindDouble is sqlite3_bind_double.
// https://sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindDouble(col int, val float64) error {
	return errCode(C.sqlite3_bind_double(stmt.stmt, C.int(col), C.double(val)))
}

// BindInt is sqlite3_bind_int.
// https://sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindInt(col int, val int32) error {
	return errCode(C.sqlite3_bind_int(stmt.stmt, C.int(col), C.int(val)))
}

// BindInt64 is sqlite3_bind_int64.
// https://sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindInt64(col int, val int64) error {
	return errCode(C.sqlite3_bind_int64(stmt.stmt, C.int(col), C.sqlite3_int64(val)))
}

// BindNull is sqlite3_bind_null.
// https://sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindNull(col int) error {
	return errCode(C.sqlite3_bind_null(stmt.stmt, C.int(col)))
}

// BindText is sqlite3_bind_text with SQLITE_TRANSIENT.
// https://sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindText(col int, val []byte) error {
	if len(val) > math.MaxInt32 {
		return sqliteh.CodeAsError(sqliteh.SQLITE_TOOBIG)
	}
	// A NULL pointer would bind SQL NULL, not "".
	p := emptyCStr
	if len(val) > 0 {
		p = (*C.char)(unsafe.Pointer(&val[0]))
	}
	return errCode(C.bind_text_transient(stmt.stmt, C.int(col), p, C.int(len(val))))
}

// BindBlob is sqlite3_bind_blob with SQLITE_TRANSIENT.
// https://sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindBlob(col int, val []byte) error {
	if len(val) == 0 {
		return errCode(C.sqlite3_bind_zeroblob(stmt.stmt, C.int(col), 0))
	}
	if len(val) > math.MaxInt32 {
		return sqliteh.CodeAsError(sqliteh.SQLITE_TOOBIG)
	}
	return errCode(C.bind_blob_transient(stmt.stmt, C.int(col), unsafe.Pointer(&val[0]), C.int(len(val))))
}

// BindZeroBlob is sqlite3_bind_zeroblob.
// https://sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindZeroBlob(col int, n int32) error {
	return errCode(C.sqlite3_bind_zeroblob(stmt.stmt, C.int(col), C.int(n)))
}

// BindZeroBlob64 is sqlite3_bind_zeroblob64.
// https://sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindZeroBlob64(col int, n uint64) error {
	return errCode(C.sqlite3_bind_zeroblob64(stmt.stmt, C.int(col), C.sqlite3_uint64(n)))
}

// BindParameterCount is sqlite3_bind_parameter_count.
// https://sqlite.org/c3ref/bind_parameter_count.html
func (stmt *Stmt) BindParameterCount() int {
	return int(C.sqlite3_bind_parameter_count(stmt.stmt))
}

// BindParameterIndex is sqlite3_bind_parameter_index.
// Returns zero if no matching parameter is found.
// https://sqlite.org/c3ref/bind_parameter_index.html
func (stmt *Stmt) BindParameterIndex(name []byte) int {
	if !sqliteh.IsCString(name) {
		return 0
	}
	return int(C.sqlite3_bind_parameter_index(stmt.stmt, (*C.char)(unsafe.Pointer(&name[0]))))
}

// ColumnCount is sqlite3_column_count.
// https://sqlite.org/c3ref/column_count.html
func (stmt *Stmt) ColumnCount() int {
	return int(C.sqlite3_column_count(stmt.stmt))
}

// ColumnName is sqlite3_column_name.
// https://sqlite.org/c3ref/column_name.html
func (stmt *Stmt) ColumnName(col int) string {
	return sqliteh.GoStringOrEmpty(unsafe.Pointer(C.sqlite3_column_name(stmt.stmt, C.int(col))))
}

// ColumnType is sqlite3_column_type.
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnType(col int) sqliteh.ColumnType {
	return sqliteh.ColumnType(C.sqlite3_column_type(stmt.stmt, C.int(col)))
}

// ColumnDouble is sqlite3_column_double.
// https://sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnDouble(col int) float64 {
	return float64(C.sqlite3_column_double(stmt.stmt, C.int(col)))
}

// ColumnInt64 is sqlite3_column_int64.
// https://sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnInt64(col int) int64 {
	return int64(C.sqlite3_column_int64(stmt.stmt, C.int(col)))
}

// ColumnText is sqlite3_column_text.
//
// WARNING: The returned memory is managed by C and is only valid until
//          another call is made on this Stmt.
//
// https://sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnText(col int) mem.RO {
	// column_bytes must follow column_text: the text call may
	// convert the value and change its length.
	p := C.sqlite3_column_text(stmt.stmt, C.int(col))
	n := int(C.sqlite3_column_bytes(stmt.stmt, C.int(col)))
	return view(unsafe.Pointer(p), n)
}

// ColumnBlob is sqlite3_column_blob.
//
// WARNING: The returned memory is managed by C and is only valid until
//          another call is made on this Stmt.
//
// https://sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnBlob(col int) mem.RO {
	p := C.sqlite3_column_blob(stmt.stmt, C.int(col))
	n := int(C.sqlite3_column_bytes(stmt.stmt, C.int(col)))
	return view(p, n)
}

func view(p unsafe.Pointer, n int) mem.RO {
	if p == nil || n <= 0 {
		return mem.RO{}
	}
	return mem.B(unsafe.Slice((*byte)(p), n))
}

var emptyCStr = C.CString("")

func errCode(code C.int) error { return sqliteh.CodeAsError(sqliteh.Code(code)) }
