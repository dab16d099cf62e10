package sqlite

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/tailscale/sqlitebind/sqliteh"
)

// SQLite has one log callback per process. It is installed once, before
// the first connection opens, and lives until exit. Subscribers are kept
// in a copy-on-write slice so the callback never holds logMu while
// calling out.
var (
	logOnce sync.Once
	logErr  error // from Lib.SetLogCallback

	logMu   sync.Mutex
	logSubs []*logSub
)

type logSub struct {
	fn func(code sqliteh.Code, msg string)
}

func initLog() {
	logOnce.Do(func() {
		logErr = Lib.SetLogCallback(dispatchLog)
	})
}

func dispatchLog(code sqliteh.Code, msg string) {
	logMu.Lock()
	subs := logSubs
	logMu.Unlock()
	for _, s := range subs {
		s.fn(code, msg)
	}
}

// SubscribeLog adds fn to the observers of SQLite's error log
// (SQLITE_CONFIG_LOG) and returns a function that removes it.
//
// fn runs synchronously inside whatever SQLite call raised the message,
// possibly on several goroutines at once. It must not use any
// connection.
func SubscribeLog(fn func(code sqliteh.Code, msg string)) (unsubscribe func()) {
	initLog()
	s := &logSub{fn: fn}
	logMu.Lock()
	logSubs = append(slices.Clip(logSubs), s)
	logMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			logMu.Lock()
			defer logMu.Unlock()
			logSubs = slices.DeleteFunc(slices.Clone(logSubs), func(x *logSub) bool { return x == s })
		})
	}
}

// LogHookErr reports why the SQLite log callback could not be installed,
// or nil if it was. The callback cannot be installed once SQLite has been
// initialized by other code in the process.
func LogHookErr() error {
	initLog()
	return logErr
}

// SlogHandler returns a SubscribeLog observer that writes to logger.
// SQLITE_NOTICE and SQLITE_WARNING codes log at warning level, everything
// else at error level.
func SlogHandler(logger *slog.Logger) func(code sqliteh.Code, msg string) {
	return func(code sqliteh.Code, msg string) {
		level := slog.LevelError
		switch code.Primary() {
		case sqliteh.SQLITE_NOTICE, sqliteh.SQLITE_WARNING:
			level = slog.LevelWarn
		}
		logger.LogAttrs(context.Background(), level, "sqlite log",
			slog.String("code", code.String()),
			slog.String("msg", msg))
	}
}
