// Package sqlstats collects SQLite's error log for debugging.
package sqlstats

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	sqlite "github.com/tailscale/sqlitebind"
	"github.com/tailscale/sqlitebind/sqliteh"
)

// LogStats counts SQLite log events by primary result code and keeps
// the most recent messages.
//
// To use, call Start (or pass s.Log to sqlite.SubscribeLog), then start
// a debug web server with http.HandlerFunc(s.Handle).
type LogStats struct {
	// Recent is how many messages to keep. Zero means 20.
	Recent int

	// Once a code has been seen once, only the read lock
	// is required to update stats.
	mu    sync.RWMutex
	codes map[sqliteh.Code]*codeStats // primary code -> stats

	recentMu sync.Mutex
	recent   []logEntry // ring buffer
	next     int

	unsubscribe func()
}

type codeStats struct {
	code sqliteh.Code

	// When inside the codes map all fields must be accessed as atomics.
	count int64
	last  int64 // UnixNano
}

type logEntry struct {
	when time.Time
	code sqliteh.Code
	msg  string
}

// Start subscribes s to the process-wide SQLite log.
// It reports why the log hook is unavailable, if it is.
func (s *LogStats) Start() error {
	if err := sqlite.LogHookErr(); err != nil {
		return fmt.Errorf("sqlstats: %w", err)
	}
	s.unsubscribe = sqlite.SubscribeLog(s.Log)
	return nil
}

// Close undoes Start.
func (s *LogStats) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *LogStats) codeStats(code sqliteh.Code) *codeStats {
	s.mu.RLock()
	stats := s.codes[code]
	s.mu.RUnlock()

	if stats != nil {
		return stats
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes == nil {
		s.codes = make(map[sqliteh.Code]*codeStats)
	}
	stats = s.codes[code]
	if stats == nil {
		stats = &codeStats{code: code}
		s.codes[code] = stats
	}
	return stats
}

// Log records one log event. Its signature matches sqlite.SubscribeLog.
func (s *LogStats) Log(code sqliteh.Code, msg string) {
	now := time.Now()
	stats := s.codeStats(code.Primary())
	atomic.AddInt64(&stats.count, 1)
	atomic.StoreInt64(&stats.last, now.UnixNano())

	keep := s.Recent
	if keep <= 0 {
		keep = 20
	}
	e := logEntry{when: now, code: code, msg: msg}
	s.recentMu.Lock()
	defer s.recentMu.Unlock()
	if len(s.recent) < keep {
		s.recent = append(s.recent, e)
	} else {
		s.recent[s.next%len(s.recent)] = e
	}
	s.next = (s.next + 1) % keep
}

// Count reports how many events with the given primary code were seen.
func (s *LogStats) Count(code sqliteh.Code) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if stats := s.codes[code.Primary()]; stats != nil {
		return atomic.LoadInt64(&stats.count)
	}
	return 0
}

func (s *LogStats) collect() (rows []codeStats) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for code, c := range s.codes {
		rows = append(rows, codeStats{
			code:  code,
			count: atomic.LoadInt64(&c.count),
			last:  atomic.LoadInt64(&c.last),
		})
	}
	return rows
}

// recentEntries returns the kept messages, oldest first.
func (s *LogStats) recentEntries() []logEntry {
	s.recentMu.Lock()
	defer s.recentMu.Unlock()
	out := make([]logEntry, 0, len(s.recent))
	if s.next < len(s.recent) {
		out = append(out, s.recent[s.next:]...)
		return append(out, s.recent[:s.next]...)
	}
	return append(out, s.recent...)
}

func (s *LogStats) Handle(w http.ResponseWriter, r *http.Request) {
	getArgs, _ := url.ParseQuery(r.URL.RawQuery)
	sortParam := strings.TrimSpace(getArgs.Get("sort"))
	rows := s.collect()

	switch sortParam {
	case "", "count":
		sort.Slice(rows, func(i, j int) bool { return rows[i].count > rows[j].count })
	case "code":
		sort.Slice(rows, func(i, j int) bool { return rows[i].code < rows[j].code })
	case "last":
		sort.Slice(rows, func(i, j int) bool { return rows[i].last > rows[j].last })
	default:
		http.Error(w, fmt.Sprintf("unknown sort: %q", sortParam), 400)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(200)
	fmt.Fprintf(w, `<!DOCTYPE html><html><body>
	<p>SQLite error log, SQLite %s.</p>
	<table border="1">
	<tr>
	<th><a href="?sort=code">Code</a></th>
	<th><a href="?sort=count">Count</a></th>
	<th><a href="?sort=last">Last</a></th>
	</tr>
	`, html.EscapeString(sqlite.LibVersion()))
	for _, row := range rows {
		fmt.Fprintf(w, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>\n",
			row.code,
			row.count,
			time.Unix(0, row.last).UTC().Format(time.RFC3339),
		)
	}
	fmt.Fprintf(w, "</table>\n<p>Recent messages:</p>\n<pre>\n")
	recent := s.recentEntries()
	for i := len(recent) - 1; i >= 0; i-- {
		e := recent[i]
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.when.UTC().Format(time.RFC3339Nano), e.code, html.EscapeString(e.msg))
	}
	fmt.Fprintf(w, "</pre></body></html>")
}
