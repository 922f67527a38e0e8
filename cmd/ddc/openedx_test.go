// openedx_test.go verifies the pass-through argument inspection and fixture discovery helpers.
package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStartsServices(t *testing.T) {
	cases := []struct {
		args []string
		want bool
	}{
		{[]string{"up", "-d"}, true},
		{[]string{"start"}, true},
		{[]string{"logs", "-f"}, false},
		{[]string{"ps"}, false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := startsServices(tc.args); got != tc.want {
			t.Fatalf("startsServices(%v) = %v, want %v", tc.args, got, tc.want)
		}
	}
}

func TestSQLDumpsSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.sql", "a.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("-- dump\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	dumps, err := sqlDumps(dir)
	if err != nil {
		t.Fatalf("sql dumps: %v", err)
	}
	want := []string{filepath.Join(dir, "a.sql"), filepath.Join(dir, "b.sql")}
	if !reflect.DeepEqual(dumps, want) {
		t.Fatalf("dumps = %v, want %v", dumps, want)
	}
}
