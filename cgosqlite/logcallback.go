package cgosqlite

// #include <sqlite3.h>
import "C"
import (
	"sync/atomic"
	"unsafe"

	"github.com/tailscale/sqlitebind/sqliteh"
)

var logFunc atomic.Pointer[sqliteh.LogFunc]

// logCallbackGo is installed with SQLITE_CONFIG_LOG. SQLite may call it
// from any thread that is inside an sqlite3_* call, and msg is only
// valid for the duration of the call.
//
//export logCallbackGo
func logCallbackGo(_ unsafe.Pointer, code C.int, msg *C.char) {
	p := logFunc.Load()
	if p == nil || *p == nil {
		return
	}
	(*p)(sqliteh.Code(code), sqliteh.GoStringOrEmpty(unsafe.Pointer(msg)))
}
