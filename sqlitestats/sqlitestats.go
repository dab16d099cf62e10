// Package sqlitestats implements a sqlitepool.Tracer for collecting debug statistics.
package sqlitestats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tailscale/sqlitebind/sqlitepool"
)

// Stats tracks and reports connection leases.
//
// Stats implements sqlitepool.Tracer and http.Handler.
type Stats struct {
	curLeases sync.Map // sqlitepool.ConnID -> *leaseStats

	acquired int64
	failed   int64
	held     int64 // time.Duration, summed over released leases
}

var _ sqlitepool.Tracer = (*Stats)(nil)

type leaseStats struct {
	name  string
	start time.Time
}

func (s *Stats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var leases []*leaseStats
	s.curLeases.Range(func(_, value any) bool {
		leases = append(leases, value.(*leaseStats))
		return true
	})
	sort.Slice(leases, func(i, j int) bool { return leases[i].start.Before(leases[j].start) })

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(200)
	io.WriteString(w, "<html><head><title>sqlite active leases</title></head><body><pre>\n")
	fmt.Fprintf(w, "sqlite leases: %d acquired, %d failed, %v held\n",
		atomic.LoadInt64(&s.acquired),
		atomic.LoadInt64(&s.failed),
		time.Duration(atomic.LoadInt64(&s.held)).Round(time.Millisecond))
	fmt.Fprintf(w, "sqlite active leases (%d):", len(leases))
	now := time.Now()
	for _, l := range leases {
		fmt.Fprintf(w, "\n\t%s\t%v", l.name, now.Sub(l.start).Round(time.Millisecond))
	}
	io.WriteString(w, "\n</pre></body></html>")
}

func (s *Stats) Acquire(ctx context.Context, id sqlitepool.ConnID, err error) {
	if err != nil {
		// Not actually leased.
		atomic.AddInt64(&s.failed, 1)
		return
	}
	atomic.AddInt64(&s.acquired, 1)

	name := ""
	if v := ctx.Value(leaseName{}); v != nil {
		name = v.(string)
	}
	s.curLeases.Store(id, &leaseStats{
		name:  name,
		start: time.Now(),
	})
}

func (s *Stats) Release(id sqlitepool.ConnID, held time.Duration) {
	if _, ok := s.curLeases.LoadAndDelete(id); !ok {
		panic(fmt.Sprintf("sqlitestats.Release: unknown ConnID: %v", id))
	}
	atomic.AddInt64(&s.held, int64(held))
}

type leaseName struct{}

// WithName makes a ctx that instructs the Stats tracer with a lease name.
func WithName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, leaseName{}, name)
}
