//go:build darwin || linux

// Package puregosqlite implements the sqliteh interfaces on a libsqlite3
// loaded at run time with dlopen, so binaries built with CGO_ENABLED=0
// can still talk to the system SQLite.
package puregosqlite

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/tailscale/sqlitebind/sqliteh"
)

// LibPathEnv names the environment variable that overrides the
// shared library search list.
const LibPathEnv = "SQLITE_LIB_PATH"

var (
	loadOnce sync.Once
	loadErr  error
)

var errNotLoaded = errors.New("puregosqlite: Load has not been called")

// Load opens libsqlite3 and resolves every entry point this package
// uses. It is safe to call more than once; only the first call does work.
func Load() (Library, error) {
	loadOnce.Do(func() { loadErr = load() })
	return Library{}, loadErr
}

// Loaded reports whether a previous Load succeeded.
func Loaded() bool {
	return c_sqlite3_open_v2 != nil && loadErr == nil
}

func libCandidates() []string {
	if p := os.Getenv(LibPathEnv); p != "" {
		return []string{p}
	}
	switch runtime.GOOS {
	case "darwin":
		return []string{"/usr/lib/libsqlite3.dylib", "libsqlite3.dylib"}
	default:
		return []string{"libsqlite3.so.0", "libsqlite3.so"}
	}
}

func load() error {
	var errs []error
	for _, name := range libCandidates() {
		handle, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return register(handle)
	}
	return fmt.Errorf("puregosqlite: unable to load sqlite library: %w", errors.Join(errs...))
}

// register resolves every symbol. RegisterLibFunc panics on a
// missing symbol, which is turned into an error here.
func register(handle uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("puregosqlite: %v", r)
		}
	}()
	purego.RegisterLibFunc(&c_sqlite3_initialize, handle, "sqlite3_initialize")
	purego.RegisterLibFunc(&c_sqlite3_config, handle, "sqlite3_config")
	purego.RegisterLibFunc(&c_sqlite3_libversion, handle, "sqlite3_libversion")
	purego.RegisterLibFunc(&c_sqlite3_errstr, handle, "sqlite3_errstr")
	purego.RegisterLibFunc(&c_sqlite3_open_v2, handle, "sqlite3_open_v2")
	purego.RegisterLibFunc(&c_sqlite3_close, handle, "sqlite3_close")
	purego.RegisterLibFunc(&c_sqlite3_errmsg, handle, "sqlite3_errmsg")
	purego.RegisterLibFunc(&c_sqlite3_extended_errcode, handle, "sqlite3_extended_errcode")
	purego.RegisterLibFunc(&c_sqlite3_extended_result_codes, handle, "sqlite3_extended_result_codes")
	purego.RegisterLibFunc(&c_sqlite3_busy_timeout, handle, "sqlite3_busy_timeout")
	purego.RegisterLibFunc(&c_sqlite3_changes, handle, "sqlite3_changes")
	purego.RegisterLibFunc(&c_sqlite3_last_insert_rowid, handle, "sqlite3_last_insert_rowid")
	purego.RegisterLibFunc(&c_sqlite3_get_autocommit, handle, "sqlite3_get_autocommit")
	purego.RegisterLibFunc(&c_sqlite3_prepare_v3, handle, "sqlite3_prepare_v3")
	purego.RegisterLibFunc(&c_sqlite3_sql, handle, "sqlite3_sql")
	purego.RegisterLibFunc(&c_sqlite3_reset, handle, "sqlite3_reset")
	purego.RegisterLibFunc(&c_sqlite3_finalize, handle, "sqlite3_finalize")
	purego.RegisterLibFunc(&c_sqlite3_clear_bindings, handle, "sqlite3_clear_bindings")
	purego.RegisterLibFunc(&c_sqlite3_step, handle, "sqlite3_step")
	purego.RegisterLibFunc(&c_sqlite3_bind_double, handle, "sqlite3_bind_double")
	purego.RegisterLibFunc(&c_sqlite3_bind_int, handle, "sqlite3_bind_int")
	purego.RegisterLibFunc(&c_sqlite3_bind_int64, handle, "sqlite3_bind_int64")
	purego.RegisterLibFunc(&c_sqlite3_bind_null, handle, "sqlite3_bind_null")
	purego.RegisterLibFunc(&c_sqlite3_bind_text, handle, "sqlite3_bind_text")
	purego.RegisterLibFunc(&c_sqlite3_bind_blob, handle, "sqlite3_bind_blob")
	purego.RegisterLibFunc(&c_sqlite3_bind_zeroblob, handle, "sqlite3_bind_zeroblob")
	purego.RegisterLibFunc(&c_sqlite3_bind_zeroblob64, handle, "sqlite3_bind_zeroblob64")
	purego.RegisterLibFunc(&c_sqlite3_bind_parameter_count, handle, "sqlite3_bind_parameter_count")
	purego.RegisterLibFunc(&c_sqlite3_bind_parameter_index, handle, "sqlite3_bind_parameter_index")
	purego.RegisterLibFunc(&c_sqlite3_column_count, handle, "sqlite3_column_count")
	purego.RegisterLibFunc(&c_sqlite3_column_name, handle, "sqlite3_column_name")
	purego.RegisterLibFunc(&c_sqlite3_column_type, handle, "sqlite3_column_type")
	purego.RegisterLibFunc(&c_sqlite3_column_double, handle, "sqlite3_column_double")
	purego.RegisterLibFunc(&c_sqlite3_column_int64, handle, "sqlite3_column_int64")
	purego.RegisterLibFunc(&c_sqlite3_column_text, handle, "sqlite3_column_text")
	purego.RegisterLibFunc(&c_sqlite3_column_blob, handle, "sqlite3_column_blob")
	purego.RegisterLibFunc(&c_sqlite3_column_bytes, handle, "sqlite3_column_bytes")
	return nil
}

// SQLITE_TRANSIENT is (sqlite3_destructor_type)-1.
const sqliteTransient = ^uintptr(0)

const sqliteConfigLog = 16

// Handles are opaque to Go, so they are carried as uintptr.
var (
	c_sqlite3_initialize func() int32
	// sqlite3_config is variadic. The (int, pointer, pointer) form is
	// passed in registers on the System V and AAPCS64 ABIs, except on
	// darwin/arm64 where variadic arguments go on the stack.
	c_sqlite3_config     func(op int32, fn uintptr, arg uintptr) int32
	c_sqlite3_libversion func() uintptr
	c_sqlite3_errstr     func(code int32) uintptr

	c_sqlite3_open_v2 func(
		filename unsafe.Pointer, // const char*
		ppDb unsafe.Pointer, // sqlite3**
		flags int32,
		zVfs unsafe.Pointer, // const char*
	) int32
	c_sqlite3_close                 func(db uintptr) int32
	c_sqlite3_errmsg                func(db uintptr) uintptr
	c_sqlite3_extended_errcode      func(db uintptr) int32
	c_sqlite3_extended_result_codes func(db uintptr, onoff int32) int32
	c_sqlite3_busy_timeout          func(db uintptr, ms int32) int32
	c_sqlite3_changes               func(db uintptr) int32
	c_sqlite3_last_insert_rowid     func(db uintptr) int64
	c_sqlite3_get_autocommit        func(db uintptr) int32
	c_sqlite3_prepare_v3            func(
		db uintptr,
		zSql unsafe.Pointer, // const char*
		nByte int32,
		prepFlags uint32,
		ppStmt unsafe.Pointer, // sqlite3_stmt**
		pzTail unsafe.Pointer, // const char**
	) int32

	c_sqlite3_sql            func(stmt uintptr) uintptr
	c_sqlite3_reset          func(stmt uintptr) int32
	c_sqlite3_finalize       func(stmt uintptr) int32
	c_sqlite3_clear_bindings func(stmt uintptr) int32
	c_sqlite3_step           func(stmt uintptr) int32

	c_sqlite3_bind_double          func(stmt uintptr, col int32, val float64) int32
	c_sqlite3_bind_int             func(stmt uintptr, col int32, val int32) int32
	c_sqlite3_bind_int64           func(stmt uintptr, col int32, val int64) int32
	c_sqlite3_bind_null            func(stmt uintptr, col int32) int32
	c_sqlite3_bind_text            func(stmt uintptr, col int32, p unsafe.Pointer, n int32, destructor uintptr) int32
	c_sqlite3_bind_blob            func(stmt uintptr, col int32, p unsafe.Pointer, n int32, destructor uintptr) int32
	c_sqlite3_bind_zeroblob        func(stmt uintptr, col int32, n int32) int32
	c_sqlite3_bind_zeroblob64      func(stmt uintptr, col int32, n uint64) int32
	c_sqlite3_bind_parameter_count func(stmt uintptr) int32
	c_sqlite3_bind_parameter_index func(stmt uintptr, name unsafe.Pointer) int32

	c_sqlite3_column_count  func(stmt uintptr) int32
	c_sqlite3_column_name   func(stmt uintptr, col int32) uintptr
	c_sqlite3_column_type   func(stmt uintptr, col int32) int32
	c_sqlite3_column_double func(stmt uintptr, col int32) float64
	c_sqlite3_column_int64  func(stmt uintptr, col int32) int64
	c_sqlite3_column_text   func(stmt uintptr, col int32) uintptr
	c_sqlite3_column_blob   func(stmt uintptr, col int32) uintptr
	c_sqlite3_column_bytes  func(stmt uintptr, col int32) int32
)

var _ sqliteh.Library = Library{}

// Library is a dlopen'd libsqlite3. The zero value is usable
// once Load has succeeded.
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
func (Library) ErrStr(code sqliteh.Code) string {
	return cstr(c_sqlite3_errstr(int32(code)))
}

// LibVersion is sqlite3_libversion.
func (Library) LibVersion() string {
	return cstr(c_sqlite3_libversion())
}

var (
	logMu       sync.Mutex
	logFn       sqliteh.LogFunc
	logCallback uintptr
	logCbOnce   sync.Once
)

// ErrVariadicUnsupported is returned by SetLogCallback on platforms
// where sqlite3_config cannot be called without cgo.
var ErrVariadicUnsupported = errors.New("puregosqlite: sqlite3_config is not callable on " + runtime.GOOS + "/" + runtime.GOARCH)

// SetLogCallback implements sqliteh.Library.
func (Library) SetLogCallback(fn sqliteh.LogFunc) error {
	if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
		return ErrVariadicUnsupported
	}
	logMu.Lock()
	logFn = fn
	logMu.Unlock()

	var cb uintptr
	if fn != nil {
		// Callbacks are never freed; create exactly one.
		logCbOnce.Do(func() {
			logCallback = purego.NewCallback(func(_ uintptr, code uintptr, msg uintptr) uintptr {
				logMu.Lock()
				fn := logFn
				logMu.Unlock()
				if fn != nil {
					fn(sqliteh.Code(int32(code)), cstr(msg))
				}
				return 0
			})
		})
		cb = logCallback
	}
	if err := errCode(c_sqlite3_config(sqliteConfigLog, cb, 0)); err != nil {
		return err
	}
	return errCode(c_sqlite3_initialize())
}

func errCode(code int32) error { return sqliteh.CodeAsError(sqliteh.Code(code)) }

// cstr copies a C string owned by SQLite. NULL reads as "".
func cstr(p uintptr) string {
	return sqliteh.GoStringOrEmpty(unsafe.Pointer(p))
}
