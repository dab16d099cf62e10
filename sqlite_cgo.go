//go:build cgo

package sqlite

import "github.com/tailscale/sqlitebind/cgosqlite"

func init() {
	Lib = cgosqlite.Library{}
}
