package sqlitestats

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tailscale/sqlitebind/sqlitepool"
)

func TestActiveLeases(t *testing.T) {
	tracer := &Stats{}
	p, err := sqlitepool.NewPool(sqlitepool.Options[int]{
		Path:   filepath.Join(t.TempDir(), "test.db"),
		Size:   3,
		Tracer: tracer,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	l1, err := p.Get(WithName(ctx, "test-one"))
	if err != nil {
		t.Fatal(err)
	}
	defer l1.Release()
	l2, err := p.Get(WithName(ctx, "test-two-released"))
	if err != nil {
		t.Fatal(err)
	}
	l2.Release()
	l3, err := p.Get(WithName(ctx, "test-three"))
	if err != nil {
		t.Fatal(err)
	}
	defer l3.Release()

	srv := httptest.NewServer(tracer)
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if want := "active leases (2):"; !strings.Contains(s, want) {
		t.Fatalf("want %q, got:\n%s", want, s)
	}
	if want := "test-one"; !strings.Contains(s, want) {
		t.Fatalf("want %q, got:\n%s", want, s)
	}
	if want := "test-three"; !strings.Contains(s, want) {
		t.Fatalf("want %q, got:\n%s", want, s)
	}
	if strings.Contains(s, "test-two-released") {
		t.Fatalf("released lease still listed:\n%s", s)
	}
}

func TestFailedAcquire(t *testing.T) {
	tracer := &Stats{}
	tracer.Acquire(context.Background(), -1, errors.New("boom"))
	if tracer.failed != 1 || tracer.acquired != 0 {
		t.Errorf("failed=%d acquired=%d, want 1 and 0", tracer.failed, tracer.acquired)
	}
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("Release of an unknown lease did not panic")
			}
		}()
		tracer.Release(7, 0)
	}()
}
