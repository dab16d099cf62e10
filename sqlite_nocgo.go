//go:build !cgo && (linux || darwin)

package sqlite

import "github.com/tailscale/sqlitebind/puregosqlite"

func init() {
	lib, err := puregosqlite.Load()
	if err != nil {
		Lib = missingLibrary{err: err}
		return
	}
	Lib = lib
}
