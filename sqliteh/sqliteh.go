// Package sqliteh contains SQLite constants for Gophers, and the
// interfaces a native SQLite backend implements.
//
// Every string that crosses into the native library is a NUL-terminated
// []byte built by CString. Every value read back out of the library is
// either copied into Go memory or returned as a mem.RO view that is only
// valid until the next call on the same handle.
package sqliteh

// Given everything in here has an sqliteh. prefix,
// why not strip the SQLITE_ prefix from constants?
// Because this way standard names show up in search.

import (
	"strconv"
	"sync"

	"go4.org/mem"
)

// LogFunc receives messages from the process-wide SQLite error log.
// https://sqlite.org/errlog.html
type LogFunc func(code Code, msg string)

// Library is a loaded SQLite shared library.
type Library interface {
	// Open is sqlite3_open_v2. The filename and vfs must be NUL-terminated;
	// a nil vfs selects the default.
	//
	// Surprisingly: an error opening the DB can return a non-nil handle.
	// Call Close on it.
	//
	// https://sqlite.org/c3ref/open.html
	Open(filename []byte, flags OpenFlags, vfs []byte) (DB, error)
	// ErrStr is sqlite3_errstr.
	// https://sqlite.org/c3ref/errcode.html
	ErrStr(code Code) string
	// LibVersion is sqlite3_libversion.
	// https://sqlite.org/c3ref/libversion.html
	LibVersion() string
	// SetLogCallback is sqlite3_config(SQLITE_CONFIG_LOG) followed by
	// sqlite3_initialize. It fails with SQLITE_MISUSE if the library
	// was already initialized.
	// https://sqlite.org/c3ref/c_config_covering_index_scan.html#sqliteconfiglog
	SetLogCallback(fn LogFunc) error
}

// DB is an sqlite3* database connection object.
// https://sqlite.org/c3ref/sqlite3.html
type DB interface {
	// Close is sqlite3_close.
	// https://sqlite.org/c3ref/close.html
	Close() error
	// ErrMsg is sqlite3_errmsg.
	// https://sqlite.org/c3ref/errcode.html
	ErrMsg() string
	// ExtendedErrCode is sqlite3_extended_errcode.
	// https://sqlite.org/c3ref/errcode.html
	ExtendedErrCode() Code
	// ExtendedResultCodes is sqlite3_extended_result_codes.
	// https://sqlite.org/c3ref/extended_result_codes.html
	ExtendedResultCodes(on bool) error
	// BusyTimeout is sqlite3_busy_timeout.
	// https://www.sqlite.org/c3ref/busy_timeout.html
	BusyTimeout(ms int) error
	// Changes is sqlite3_changes.
	// https://sqlite.org/c3ref/changes.html
	Changes() int
	// LastInsertRowid is sqlite3_last_insert_rowid.
	// https://sqlite.org/c3ref/last_insert_rowid.html
	LastInsertRowid() int64
	// AutoCommit is sqlite3_get_autocommit. It reports false while a
	// transaction is open.
	// https://sqlite.org/c3ref/get_autocommit.html
	AutoCommit() bool
	// Prepare is sqlite3_prepare_v3.
	//
	// The query must be NUL-terminated. Only the first SQL command is
	// compiled; tail is the offset in query of the first byte that was
	// not consumed. If query holds no command (only whitespace or
	// comments), stmt is nil and err is nil.
	//
	// https://www.sqlite.org/c3ref/prepare.html
	Prepare(query []byte, prepFlags PrepareFlags) (stmt Stmt, tail int, err error)
}

// Stmt is an sqlite3_stmt* database connection object.
// https://sqlite.org/c3ref/stmt.html
type Stmt interface {
	// SQL is sqlite3_sql.
	// https://www.sqlite.org/c3ref/expanded_sql.html
	SQL() string
	// Reset is sqlite3_reset.
	// https://www.sqlite.org/c3ref/reset.html
	Reset() error
	// Finalize is sqlite3_finalize.
	// https://sqlite.org/c3ref/finalize.html
	Finalize() error
	// ClearBindings is sqlite3_clear_bindings.
	// https://www.sqlite.org/c3ref/clear_bindings.html
	ClearBindings() error
	// Step is sqlite3_step.
	// 	For SQLITE_ROW, Step returns (SQLITE_ROW, nil).
	// 	For SQLITE_DONE, Step returns (SQLITE_DONE, nil).
	// 	For any other code, Step returns (code, CodeAsError(code)).
	// https://www.sqlite.org/c3ref/step.html
	Step() (Code, error)
	// BindDouble is sqlite3_bind_double.
	// https://sqlite.org/c3ref/bind_blob.html
	BindDouble(col int, val float64) error
	// BindInt is sqlite3_bind_int.
	// https://sqlite.org/c3ref/bind_blob.html
	BindInt(col int, val int32) error
	// BindInt64 is sqlite3_bind_int64.
	// https://sqlite.org/c3ref/bind_blob.html
	BindInt64(col int, val int64) error
	// BindNull is sqlite3_bind_null.
	// https://sqlite.org/c3ref/bind_blob.html
	BindNull(col int) error
	// BindText is sqlite3_bind_text with SQLITE_TRANSIENT.
	// The value need not be NUL-terminated and may be reused
	// as soon as BindText returns.
	// https://sqlite.org/c3ref/bind_blob.html
	BindText(col int, val []byte) error
	// BindBlob is sqlite3_bind_blob with SQLITE_TRANSIENT.
	// An empty val binds a zero-length blob, not NULL.
	// https://sqlite.org/c3ref/bind_blob.html
	BindBlob(col int, val []byte) error
	// BindZeroBlob is sqlite3_bind_zeroblob.
	// https://sqlite.org/c3ref/bind_blob.html
	BindZeroBlob(col int, n int32) error
	// BindZeroBlob64 is sqlite3_bind_zeroblob64.
	// https://sqlite.org/c3ref/bind_blob.html
	BindZeroBlob64(col int, n uint64) error
	// BindParameterCount is sqlite3_bind_parameter_count.
	// https://sqlite.org/c3ref/bind_parameter_count.html
	BindParameterCount() int
	// BindParameterIndex is sqlite3_bind_parameter_index.
	// The name must be NUL-terminated.
	// Returns zero if no matching parameter is found.
	// https://sqlite.org/c3ref/bind_parameter_index.html
	BindParameterIndex(name []byte) int
	// ColumnCount is sqlite3_column_count.
	// https://sqlite.org/c3ref/column_count.html
	ColumnCount() int
	// ColumnName is sqlite3_column_name.
	// https://sqlite.org/c3ref/column_name.html
	ColumnName(col int) string
	// ColumnType is sqlite3_column_type.
	// https://www.sqlite.org/c3ref/column_blob.html
	ColumnType(col int) ColumnType
	// ColumnDouble is sqlite3_column_double.
	// https://sqlite.org/c3ref/column_blob.html
	ColumnDouble(col int) float64
	// ColumnInt64 is sqlite3_column_int64.
	// https://sqlite.org/c3ref/column_blob.html
	ColumnInt64(col int) int64
	// ColumnText is sqlite3_column_text followed by sqlite3_column_bytes.
	//
	// WARNING: The returned memory is managed by C and is only valid until
	//          another call is made on this Stmt.
	//
	// https://sqlite.org/c3ref/column_blob.html
	ColumnText(col int) mem.RO
	// ColumnBlob is sqlite3_column_blob followed by sqlite3_column_bytes.
	//
	// WARNING: The returned memory is managed by C and is only valid until
	//          another call is made on this Stmt.
	//
	// https://sqlite.org/c3ref/column_blob.html
	ColumnBlob(col int) mem.RO
}

// ColumnType are constants for each of the SQLite datatypes.
// https://www.sqlite.org/c3ref/c_blob.html
type ColumnType int

const (
	SQLITE_INTEGER ColumnType = 1
	SQLITE_FLOAT   ColumnType = 2
	SQLITE_TEXT    ColumnType = 3
	SQLITE_BLOB    ColumnType = 4
	SQLITE_NULL    ColumnType = 5
)

func (t ColumnType) String() string {
	switch t {
	case SQLITE_INTEGER:
		return "SQLITE_INTEGER"
	case SQLITE_FLOAT:
		return "SQLITE_FLOAT"
	case SQLITE_TEXT:
		return "SQLITE_TEXT"
	case SQLITE_BLOB:
		return "SQLITE_BLOB"
	case SQLITE_NULL:
		return "SQLITE_NULL"
	default:
		return "UNKNOWN_SQLITE_DATATYPE(" + strconv.Itoa(int(t)) + ")"
	}
}

// https://www.sqlite.org/c3ref/c_prepare_normalize.html
type PrepareFlags int

const (
	SQLITE_PREPARE_PERSISTENT PrepareFlags = 0x01
	SQLITE_PREPARE_NORMALIZE  PrepareFlags = 0x02
	SQLITE_PREPARE_NO_VTAB    PrepareFlags = 0x04
)

// OpenFlags are flags used when opening a DB.
//
// https://www.sqlite.org/c3ref/c_open_autoproxy.html
type OpenFlags int

const (
	SQLITE_OPEN_READONLY      OpenFlags = 0x00000001
	SQLITE_OPEN_READWRITE     OpenFlags = 0x00000002
	SQLITE_OPEN_CREATE        OpenFlags = 0x00000004
	SQLITE_OPEN_DELETEONCLOSE OpenFlags = 0x00000008
	SQLITE_OPEN_EXCLUSIVE     OpenFlags = 0x00000010
	SQLITE_OPEN_AUTOPROXY     OpenFlags = 0x00000020
	SQLITE_OPEN_URI           OpenFlags = 0x00000040
	SQLITE_OPEN_MEMORY        OpenFlags = 0x00000080
	SQLITE_OPEN_NOMUTEX       OpenFlags = 0x00008000
	SQLITE_OPEN_FULLMUTEX     OpenFlags = 0x00010000
	SQLITE_OPEN_SHAREDCACHE   OpenFlags = 0x00020000
	SQLITE_OPEN_PRIVATECACHE  OpenFlags = 0x00040000
	SQLITE_OPEN_NOFOLLOW      OpenFlags = 0x01000000
	SQLITE_OPEN_EXRESCODE     OpenFlags = 0x02000000

	// OpenFlagsDefault is read-write, create-if-missing, URI filenames,
	// and no per-connection mutex: a connection is only ever used by
	// one goroutine at a time.
	OpenFlagsDefault = SQLITE_OPEN_READWRITE |
		SQLITE_OPEN_CREATE |
		SQLITE_OPEN_URI |
		SQLITE_OPEN_NOMUTEX
)

var openFlagNames = []struct {
	flag OpenFlags
	name string
}{
	{SQLITE_OPEN_READONLY, "SQLITE_OPEN_READONLY"},
	{SQLITE_OPEN_READWRITE, "SQLITE_OPEN_READWRITE"},
	{SQLITE_OPEN_CREATE, "SQLITE_OPEN_CREATE"},
	{SQLITE_OPEN_DELETEONCLOSE, "SQLITE_OPEN_DELETEONCLOSE"},
	{SQLITE_OPEN_EXCLUSIVE, "SQLITE_OPEN_EXCLUSIVE"},
	{SQLITE_OPEN_AUTOPROXY, "SQLITE_OPEN_AUTOPROXY"},
	{SQLITE_OPEN_URI, "SQLITE_OPEN_URI"},
	{SQLITE_OPEN_MEMORY, "SQLITE_OPEN_MEMORY"},
	{SQLITE_OPEN_NOMUTEX, "SQLITE_OPEN_NOMUTEX"},
	{SQLITE_OPEN_FULLMUTEX, "SQLITE_OPEN_FULLMUTEX"},
	{SQLITE_OPEN_SHAREDCACHE, "SQLITE_OPEN_SHAREDCACHE"},
	{SQLITE_OPEN_PRIVATECACHE, "SQLITE_OPEN_PRIVATECACHE"},
	{SQLITE_OPEN_NOFOLLOW, "SQLITE_OPEN_NOFOLLOW"},
	{SQLITE_OPEN_EXRESCODE, "SQLITE_OPEN_EXRESCODE"},
}

func (o OpenFlags) String() string {
	var b []byte
	rest := o
	for _, f := range openFlagNames {
		if o&f.flag == 0 {
			continue
		}
		if len(b) > 0 {
			b = append(b, '|')
		}
		b = append(b, f.name...)
		rest &^= f.flag
	}
	if rest != 0 {
		if len(b) > 0 {
			b = append(b, '|')
		}
		b = append(b, "UNKNOWN_FLAG:0x"...)
		b = strconv.AppendInt(b, int64(rest), 16)
	}
	return string(b)
}

// ErrCode is an SQLite error code as a Go error.
// It must not be one of the status codes SQLITE_OK, SQLITE_ROW, or SQLITE_DONE.
type ErrCode Code

func (e ErrCode) Error() string {
	return Code(e).String()
}

// Code is an SQLite extended error code.
//
// The three SQLite result codes (SQLITE_OK, SQLITE_ROW, and SQLITE_DONE),
// are not errors so they should not be used in an Error.
type Code int

func (code Code) String() string {
	switch code {
	case SQLITE_OK:
		return "SQLITE_OK(not an error)"
	case SQLITE_ROW:
		return "SQLITE_ROW(not an error)"
	case SQLITE_DONE:
		return "SQLITE_DONE(not an error)"
	}
	if name, ok := codeNames[code]; ok {
		return name
	}
	return "SQLITE_UNKNOWN_ERR(" + strconv.Itoa(int(code)) + ")"
}

// Primary reports the primary result code of an extended code,
// for example SQLITE_BUSY for SQLITE_BUSY_SNAPSHOT.
// https://sqlite.org/rescode.html#primary_result_codes_versus_extended_result_codes
func (code Code) Primary() Code {
	return code & 0xff
}

const (
	SQLITE_OK         = Code(0) // do not use in Error
	SQLITE_ERROR      = Code(1)
	SQLITE_INTERNAL   = Code(2)
	SQLITE_PERM       = Code(3)
	SQLITE_ABORT      = Code(4)
	SQLITE_BUSY       = Code(5)
	SQLITE_LOCKED     = Code(6)
	SQLITE_NOMEM      = Code(7)
	SQLITE_READONLY   = Code(8)
	SQLITE_INTERRUPT  = Code(9)
	SQLITE_IOERR      = Code(10)
	SQLITE_CORRUPT    = Code(11)
	SQLITE_NOTFOUND   = Code(12)
	SQLITE_FULL       = Code(13)
	SQLITE_CANTOPEN   = Code(14)
	SQLITE_PROTOCOL   = Code(15)
	SQLITE_EMPTY      = Code(16)
	SQLITE_SCHEMA     = Code(17)
	SQLITE_TOOBIG     = Code(18)
	SQLITE_CONSTRAINT = Code(19)
	SQLITE_MISMATCH   = Code(20)
	SQLITE_MISUSE     = Code(21)
	SQLITE_NOLFS      = Code(22)
	SQLITE_AUTH       = Code(23)
	SQLITE_FORMAT     = Code(24)
	SQLITE_RANGE      = Code(25)
	SQLITE_NOTADB     = Code(26)
	SQLITE_NOTICE     = Code(27)
	SQLITE_WARNING    = Code(28)
	SQLITE_ROW        = Code(100) // do not use in Error
	SQLITE_DONE       = Code(101) // do not use in Error

	// Extended error codes

	SQLITE_ERROR_MISSING_COLLSEQ   = Code(SQLITE_ERROR | (1 << 8))
	SQLITE_ERROR_RETRY             = Code(SQLITE_ERROR | (2 << 8))
	SQLITE_ERROR_SNAPSHOT          = Code(SQLITE_ERROR | (3 << 8))
	SQLITE_IOERR_READ              = Code(SQLITE_IOERR | (1 << 8))
	SQLITE_IOERR_SHORT_READ        = Code(SQLITE_IOERR | (2 << 8))
	SQLITE_IOERR_WRITE             = Code(SQLITE_IOERR | (3 << 8))
	SQLITE_IOERR_FSYNC             = Code(SQLITE_IOERR | (4 << 8))
	SQLITE_IOERR_DIR_FSYNC         = Code(SQLITE_IOERR | (5 << 8))
	SQLITE_IOERR_TRUNCATE          = Code(SQLITE_IOERR | (6 << 8))
	SQLITE_IOERR_FSTAT             = Code(SQLITE_IOERR | (7 << 8))
	SQLITE_IOERR_UNLOCK            = Code(SQLITE_IOERR | (8 << 8))
	SQLITE_IOERR_RDLOCK            = Code(SQLITE_IOERR | (9 << 8))
	SQLITE_IOERR_DELETE            = Code(SQLITE_IOERR | (10 << 8))
	SQLITE_IOERR_BLOCKED           = Code(SQLITE_IOERR | (11 << 8))
	SQLITE_IOERR_NOMEM             = Code(SQLITE_IOERR | (12 << 8))
	SQLITE_IOERR_ACCESS            = Code(SQLITE_IOERR | (13 << 8))
	SQLITE_IOERR_CHECKRESERVEDLOCK = Code(SQLITE_IOERR | (14 << 8))
	SQLITE_IOERR_LOCK              = Code(SQLITE_IOERR | (15 << 8))
	SQLITE_IOERR_CLOSE             = Code(SQLITE_IOERR | (16 << 8))
	SQLITE_IOERR_DIR_CLOSE         = Code(SQLITE_IOERR | (17 << 8))
	SQLITE_IOERR_SHMOPEN           = Code(SQLITE_IOERR | (18 << 8))
	SQLITE_IOERR_SHMSIZE           = Code(SQLITE_IOERR | (19 << 8))
	SQLITE_IOERR_SHMLOCK           = Code(SQLITE_IOERR | (20 << 8))
	SQLITE_IOERR_SHMMAP            = Code(SQLITE_IOERR | (21 << 8))
	SQLITE_IOERR_SEEK              = Code(SQLITE_IOERR | (22 << 8))
	SQLITE_IOERR_DELETE_NOENT      = Code(SQLITE_IOERR | (23 << 8))
	SQLITE_IOERR_MMAP              = Code(SQLITE_IOERR | (24 << 8))
	SQLITE_IOERR_GETTEMPPATH       = Code(SQLITE_IOERR | (25 << 8))
	SQLITE_IOERR_CONVPATH          = Code(SQLITE_IOERR | (26 << 8))
	SQLITE_IOERR_VNODE             = Code(SQLITE_IOERR | (27 << 8))
	SQLITE_IOERR_AUTH              = Code(SQLITE_IOERR | (28 << 8))
	SQLITE_IOERR_BEGIN_ATOMIC      = Code(SQLITE_IOERR | (29 << 8))
	SQLITE_IOERR_COMMIT_ATOMIC     = Code(SQLITE_IOERR | (30 << 8))
	SQLITE_IOERR_ROLLBACK_ATOMIC   = Code(SQLITE_IOERR | (31 << 8))
	SQLITE_IOERR_DATA              = Code(SQLITE_IOERR | (32 << 8))
	SQLITE_IOERR_CORRUPTFS         = Code(SQLITE_IOERR | (33 << 8))
	SQLITE_LOCKED_SHAREDCACHE      = Code(SQLITE_LOCKED | (1 << 8))
	SQLITE_LOCKED_VTAB             = Code(SQLITE_LOCKED | (2 << 8))
	SQLITE_BUSY_RECOVERY           = Code(SQLITE_BUSY | (1 << 8))
	SQLITE_BUSY_SNAPSHOT           = Code(SQLITE_BUSY | (2 << 8))
	SQLITE_BUSY_TIMEOUT            = Code(SQLITE_BUSY | (3 << 8))
	SQLITE_CANTOPEN_NOTEMPDIR      = Code(SQLITE_CANTOPEN | (1 << 8))
	SQLITE_CANTOPEN_ISDIR          = Code(SQLITE_CANTOPEN | (2 << 8))
	SQLITE_CANTOPEN_FULLPATH       = Code(SQLITE_CANTOPEN | (3 << 8))
	SQLITE_CANTOPEN_CONVPATH       = Code(SQLITE_CANTOPEN | (4 << 8))
	SQLITE_CANTOPEN_DIRTYWAL       = Code(SQLITE_CANTOPEN | (5 << 8)) /* Not Used */
	SQLITE_CANTOPEN_SYMLINK        = Code(SQLITE_CANTOPEN | (6 << 8))
	SQLITE_CORRUPT_VTAB            = Code(SQLITE_CORRUPT | (1 << 8))
	SQLITE_CORRUPT_SEQUENCE        = Code(SQLITE_CORRUPT | (2 << 8))
	SQLITE_CORRUPT_INDEX           = Code(SQLITE_CORRUPT | (3 << 8))
	SQLITE_READONLY_RECOVERY       = Code(SQLITE_READONLY | (1 << 8))
	SQLITE_READONLY_CANTLOCK       = Code(SQLITE_READONLY | (2 << 8))
	SQLITE_READONLY_ROLLBACK       = Code(SQLITE_READONLY | (3 << 8))
	SQLITE_READONLY_DBMOVED        = Code(SQLITE_READONLY | (4 << 8))
	SQLITE_READONLY_CANTINIT       = Code(SQLITE_READONLY | (5 << 8))
	SQLITE_READONLY_DIRECTORY      = Code(SQLITE_READONLY | (6 << 8))
	SQLITE_ABORT_ROLLBACK          = Code(SQLITE_ABORT | (2 << 8))
	SQLITE_CONSTRAINT_CHECK        = Code(SQLITE_CONSTRAINT | (1 << 8))
	SQLITE_CONSTRAINT_COMMITHOOK   = Code(SQLITE_CONSTRAINT | (2 << 8))
	SQLITE_CONSTRAINT_FOREIGNKEY   = Code(SQLITE_CONSTRAINT | (3 << 8))
	SQLITE_CONSTRAINT_FUNCTION     = Code(SQLITE_CONSTRAINT | (4 << 8))
	SQLITE_CONSTRAINT_NOTNULL      = Code(SQLITE_CONSTRAINT | (5 << 8))
	SQLITE_CONSTRAINT_PRIMARYKEY   = Code(SQLITE_CONSTRAINT | (6 << 8))
	SQLITE_CONSTRAINT_TRIGGER      = Code(SQLITE_CONSTRAINT | (7 << 8))
	SQLITE_CONSTRAINT_UNIQUE       = Code(SQLITE_CONSTRAINT | (8 << 8))
	SQLITE_CONSTRAINT_VTAB         = Code(SQLITE_CONSTRAINT | (9 << 8))
	SQLITE_CONSTRAINT_ROWID        = Code(SQLITE_CONSTRAINT | (10 << 8))
	SQLITE_CONSTRAINT_PINNED       = Code(SQLITE_CONSTRAINT | (11 << 8))
	SQLITE_NOTICE_RECOVER_WAL      = Code(SQLITE_NOTICE | (1 << 8))
	SQLITE_NOTICE_RECOVER_ROLLBACK = Code(SQLITE_NOTICE | (2 << 8))
	SQLITE_WARNING_AUTOINDEX       = Code(SQLITE_WARNING | (1 << 8))
	SQLITE_AUTH_USER               = Code(SQLITE_AUTH | (1 << 8))
	SQLITE_OK_LOAD_PERMANENTLY     = Code(SQLITE_OK | (1 << 8))
	SQLITE_OK_SYMLINK              = Code(SQLITE_OK | (2 << 8))
)

// CodeAsError is used to intern Codes into ErrCodes.
// SQLite non-error status codes return nil.
func CodeAsError(code Code) error {
	if code == SQLITE_OK || code == SQLITE_ROW || code == SQLITE_DONE {
		return nil
	}
	codeAsErrorInitOnce.Do(codeAsErrorInit)
	err := codeAsError[code]
	if err == nil {
		return ErrCode(code)
	}
	return err
}

var codeAsError map[Code]error

var codeAsErrorInitOnce sync.Once

func codeAsErrorInit() {
	codeAsError = make(map[Code]error, len(codeNames))
	for code := range codeNames {
		codeAsError[code] = ErrCode(code)
	}
}

var codeNames = map[Code]string{
	SQLITE_ERROR:                   "SQLITE_ERROR",
	SQLITE_INTERNAL:                "SQLITE_INTERNAL",
	SQLITE_PERM:                    "SQLITE_PERM",
	SQLITE_ABORT:                   "SQLITE_ABORT",
	SQLITE_BUSY:                    "SQLITE_BUSY",
	SQLITE_LOCKED:                  "SQLITE_LOCKED",
	SQLITE_NOMEM:                   "SQLITE_NOMEM",
	SQLITE_READONLY:                "SQLITE_READONLY",
	SQLITE_INTERRUPT:               "SQLITE_INTERRUPT",
	SQLITE_IOERR:                   "SQLITE_IOERR",
	SQLITE_CORRUPT:                 "SQLITE_CORRUPT",
	SQLITE_NOTFOUND:                "SQLITE_NOTFOUND",
	SQLITE_FULL:                    "SQLITE_FULL",
	SQLITE_CANTOPEN:                "SQLITE_CANTOPEN",
	SQLITE_PROTOCOL:                "SQLITE_PROTOCOL",
	SQLITE_EMPTY:                   "SQLITE_EMPTY",
	SQLITE_SCHEMA:                  "SQLITE_SCHEMA",
	SQLITE_TOOBIG:                  "SQLITE_TOOBIG",
	SQLITE_CONSTRAINT:              "SQLITE_CONSTRAINT",
	SQLITE_MISMATCH:                "SQLITE_MISMATCH",
	SQLITE_MISUSE:                  "SQLITE_MISUSE",
	SQLITE_NOLFS:                   "SQLITE_NOLFS",
	SQLITE_AUTH:                    "SQLITE_AUTH",
	SQLITE_FORMAT:                  "SQLITE_FORMAT",
	SQLITE_RANGE:                   "SQLITE_RANGE",
	SQLITE_NOTADB:                  "SQLITE_NOTADB",
	SQLITE_NOTICE:                  "SQLITE_NOTICE",
	SQLITE_WARNING:                 "SQLITE_WARNING",
	SQLITE_ERROR_MISSING_COLLSEQ:   "SQLITE_ERROR_MISSING_COLLSEQ",
	SQLITE_ERROR_RETRY:             "SQLITE_ERROR_RETRY",
	SQLITE_ERROR_SNAPSHOT:          "SQLITE_ERROR_SNAPSHOT",
	SQLITE_IOERR_READ:              "SQLITE_IOERR_READ",
	SQLITE_IOERR_SHORT_READ:        "SQLITE_IOERR_SHORT_READ",
	SQLITE_IOERR_WRITE:             "SQLITE_IOERR_WRITE",
	SQLITE_IOERR_FSYNC:             "SQLITE_IOERR_FSYNC",
	SQLITE_IOERR_DIR_FSYNC:         "SQLITE_IOERR_DIR_FSYNC",
	SQLITE_IOERR_TRUNCATE:          "SQLITE_IOERR_TRUNCATE",
	SQLITE_IOERR_FSTAT:             "SQLITE_IOERR_FSTAT",
	SQLITE_IOERR_UNLOCK:            "SQLITE_IOERR_UNLOCK",
	SQLITE_IOERR_RDLOCK:            "SQLITE_IOERR_RDLOCK",
	SQLITE_IOERR_DELETE:            "SQLITE_IOERR_DELETE",
	SQLITE_IOERR_BLOCKED:           "SQLITE_IOERR_BLOCKED",
	SQLITE_IOERR_NOMEM:             "SQLITE_IOERR_NOMEM",
	SQLITE_IOERR_ACCESS:            "SQLITE_IOERR_ACCESS",
	SQLITE_IOERR_CHECKRESERVEDLOCK: "SQLITE_IOERR_CHECKRESERVEDLOCK",
	SQLITE_IOERR_LOCK:              "SQLITE_IOERR_LOCK",
	SQLITE_IOERR_CLOSE:             "SQLITE_IOERR_CLOSE",
	SQLITE_IOERR_DIR_CLOSE:         "SQLITE_IOERR_DIR_CLOSE",
	SQLITE_IOERR_SHMOPEN:           "SQLITE_IOERR_SHMOPEN",
	SQLITE_IOERR_SHMSIZE:           "SQLITE_IOERR_SHMSIZE",
	SQLITE_IOERR_SHMLOCK:           "SQLITE_IOERR_SHMLOCK",
	SQLITE_IOERR_SHMMAP:            "SQLITE_IOERR_SHMMAP",
	SQLITE_IOERR_SEEK:              "SQLITE_IOERR_SEEK",
	SQLITE_IOERR_DELETE_NOENT:      "SQLITE_IOERR_DELETE_NOENT",
	SQLITE_IOERR_MMAP:              "SQLITE_IOERR_MMAP",
	SQLITE_IOERR_GETTEMPPATH:       "SQLITE_IOERR_GETTEMPPATH",
	SQLITE_IOERR_CONVPATH:          "SQLITE_IOERR_CONVPATH",
	SQLITE_IOERR_VNODE:             "SQLITE_IOERR_VNODE",
	SQLITE_IOERR_AUTH:              "SQLITE_IOERR_AUTH",
	SQLITE_IOERR_BEGIN_ATOMIC:      "SQLITE_IOERR_BEGIN_ATOMIC",
	SQLITE_IOERR_COMMIT_ATOMIC:     "SQLITE_IOERR_COMMIT_ATOMIC",
	SQLITE_IOERR_ROLLBACK_ATOMIC:   "SQLITE_IOERR_ROLLBACK_ATOMIC",
	SQLITE_IOERR_DATA:              "SQLITE_IOERR_DATA",
	SQLITE_IOERR_CORRUPTFS:         "SQLITE_IOERR_CORRUPTFS",
	SQLITE_LOCKED_SHAREDCACHE:      "SQLITE_LOCKED_SHAREDCACHE",
	SQLITE_LOCKED_VTAB:             "SQLITE_LOCKED_VTAB",
	SQLITE_BUSY_RECOVERY:           "SQLITE_BUSY_RECOVERY",
	SQLITE_BUSY_SNAPSHOT:           "SQLITE_BUSY_SNAPSHOT",
	SQLITE_BUSY_TIMEOUT:            "SQLITE_BUSY_TIMEOUT",
	SQLITE_CANTOPEN_NOTEMPDIR:      "SQLITE_CANTOPEN_NOTEMPDIR",
	SQLITE_CANTOPEN_ISDIR:          "SQLITE_CANTOPEN_ISDIR",
	SQLITE_CANTOPEN_FULLPATH:       "SQLITE_CANTOPEN_FULLPATH",
	SQLITE_CANTOPEN_CONVPATH:       "SQLITE_CANTOPEN_CONVPATH",
	SQLITE_CANTOPEN_DIRTYWAL:       "SQLITE_CANTOPEN_DIRTYWAL",
	SQLITE_CANTOPEN_SYMLINK:        "SQLITE_CANTOPEN_SYMLINK",
	SQLITE_CORRUPT_VTAB:            "SQLITE_CORRUPT_VTAB",
	SQLITE_CORRUPT_SEQUENCE:        "SQLITE_CORRUPT_SEQUENCE",
	SQLITE_CORRUPT_INDEX:           "SQLITE_CORRUPT_INDEX",
	SQLITE_READONLY_RECOVERY:       "SQLITE_READONLY_RECOVERY",
	SQLITE_READONLY_CANTLOCK:       "SQLITE_READONLY_CANTLOCK",
	SQLITE_READONLY_ROLLBACK:       "SQLITE_READONLY_ROLLBACK",
	SQLITE_READONLY_DBMOVED:        "SQLITE_READONLY_DBMOVED",
	SQLITE_READONLY_CANTINIT:       "SQLITE_READONLY_CANTINIT",
	SQLITE_READONLY_DIRECTORY:      "SQLITE_READONLY_DIRECTORY",
	SQLITE_ABORT_ROLLBACK:          "SQLITE_ABORT_ROLLBACK",
	SQLITE_CONSTRAINT_CHECK:        "SQLITE_CONSTRAINT_CHECK",
	SQLITE_CONSTRAINT_COMMITHOOK:   "SQLITE_CONSTRAINT_COMMITHOOK",
	SQLITE_CONSTRAINT_FOREIGNKEY:   "SQLITE_CONSTRAINT_FOREIGNKEY",
	SQLITE_CONSTRAINT_FUNCTION:     "SQLITE_CONSTRAINT_FUNCTION",
	SQLITE_CONSTRAINT_NOTNULL:      "SQLITE_CONSTRAINT_NOTNULL",
	SQLITE_CONSTRAINT_PRIMARYKEY:   "SQLITE_CONSTRAINT_PRIMARYKEY",
	SQLITE_CONSTRAINT_TRIGGER:      "SQLITE_CONSTRAINT_TRIGGER",
	SQLITE_CONSTRAINT_UNIQUE:       "SQLITE_CONSTRAINT_UNIQUE",
	SQLITE_CONSTRAINT_VTAB:         "SQLITE_CONSTRAINT_VTAB",
	SQLITE_CONSTRAINT_ROWID:        "SQLITE_CONSTRAINT_ROWID",
	SQLITE_CONSTRAINT_PINNED:       "SQLITE_CONSTRAINT_PINNED",
	SQLITE_NOTICE_RECOVER_WAL:      "SQLITE_NOTICE_RECOVER_WAL",
	SQLITE_NOTICE_RECOVER_ROLLBACK: "SQLITE_NOTICE_RECOVER_ROLLBACK",
	SQLITE_WARNING_AUTOINDEX:       "SQLITE_WARNING_AUTOINDEX",
	SQLITE_AUTH_USER:               "SQLITE_AUTH_USER",
	SQLITE_OK_LOAD_PERMANENTLY:     "SQLITE_OK_LOAD_PERMANENTLY",
	SQLITE_OK_SYMLINK:              "SQLITE_OK_SYMLINK",
}
