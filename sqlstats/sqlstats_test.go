package sqlstats

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	sqlite "github.com/tailscale/sqlitebind"
	"github.com/tailscale/sqlitebind/sqliteh"
)

func get(t *testing.T, h http.HandlerFunc, query string) (int, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL + query)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(b)
}

func TestCollect(t *testing.T) {
	s := &LogStats{}
	s.Log(sqliteh.SQLITE_WARNING_AUTOINDEX, "automatic index on t(c)")
	s.Log(sqliteh.SQLITE_WARNING, "w")
	s.Log(sqliteh.SQLITE_ERROR, "no such table: x")

	if got := s.Count(sqliteh.SQLITE_WARNING); got != 2 {
		t.Errorf("Count(WARNING)=%d, want 2", got)
	}
	if got := s.Count(sqliteh.SQLITE_WARNING_AUTOINDEX); got != 2 {
		t.Errorf("Count(WARNING_AUTOINDEX)=%d, want 2, extended codes count as primary", got)
	}
	if got := s.Count(sqliteh.SQLITE_CORRUPT); got != 0 {
		t.Errorf("Count(CORRUPT)=%d, want 0", got)
	}

	got := make(map[sqliteh.Code]int64)
	for _, row := range s.collect() {
		got[row.code] = row.count
	}
	want := map[sqliteh.Code]int64{
		sqliteh.SQLITE_WARNING: 2,
		sqliteh.SQLITE_ERROR:   1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("collect (-want +got):\n%s", diff)
	}
}

func TestRecent(t *testing.T) {
	s := &LogStats{Recent: 3}
	for i := 0; i < 7; i++ {
		s.Log(sqliteh.SQLITE_NOTICE, fmt.Sprintf("msg %d", i))
	}
	var got []string
	for _, e := range s.recentEntries() {
		got = append(got, e.msg)
	}
	if diff := cmp.Diff([]string{"msg 4", "msg 5", "msg 6"}, got); diff != "" {
		t.Errorf("recent (-want +got):\n%s", diff)
	}
}

func TestHandle(t *testing.T) {
	s := &LogStats{}
	s.Log(sqliteh.SQLITE_ERROR, `near "<b>": syntax error`)
	s.Log(sqliteh.SQLITE_SCHEMA, "schema changed")
	s.Log(sqliteh.SQLITE_SCHEMA, "schema changed")

	code, body := get(t, s.Handle, "")
	if code != 200 {
		t.Fatalf("status=%d", code)
	}
	for _, want := range []string{
		"<td>SQLITE_SCHEMA</td><td>2</td>",
		"<td>SQLITE_ERROR</td><td>1</td>",
		`near &#34;&lt;b&gt;&#34;: syntax error`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("want %q, got:\n%s", want, body)
		}
	}
	if i, j := strings.Index(body, "SQLITE_SCHEMA</td>"), strings.Index(body, "SQLITE_ERROR</td>"); i > j {
		t.Errorf("default sort is not by count:\n%s", body)
	}

	_, body = get(t, s.Handle, "?sort=code")
	if i, j := strings.Index(body, "SQLITE_SCHEMA</td>"), strings.Index(body, "SQLITE_ERROR</td>"); i < j {
		t.Errorf("sort=code did not put SQLITE_ERROR first:\n%s", body)
	}

	if code, _ := get(t, s.Handle, "?sort=bogus"); code != 400 {
		t.Errorf("unknown sort: status=%d, want 400", code)
	}
}

func TestStart(t *testing.T) {
	s := &LogStats{}
	if err := s.Start(); err != nil {
		t.Skip(err)
	}
	defer s.Close()

	conn, err := sqlite.CreateTemporaryInMemoryDB()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if _, err := conn.Prepare("SELECT * FROM no_such_table;"); err == nil {
		t.Fatal("prepare succeeded")
	}
	if got := s.Count(sqliteh.SQLITE_ERROR); got == 0 {
		t.Error("prepare error was not logged")
	}

	s.Close()
	before := s.Count(sqliteh.SQLITE_ERROR)
	conn.Prepare("SELECT * FROM no_such_table;")
	if got := s.Count(sqliteh.SQLITE_ERROR); got != before {
		t.Errorf("count changed after Close: %d -> %d", before, got)
	}
}
