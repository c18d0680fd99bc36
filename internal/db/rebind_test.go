package db

import "testing"

func TestRebind(t *testing.T) {
	cases := []struct {
		driver string
		in     string
		want   string
	}{
		{DriverSQLite, `SELECT * FROM t WHERE a = ? AND b = ?`, `SELECT * FROM t WHERE a = ? AND b = ?`},
		{DriverPostgres, `SELECT * FROM t WHERE a = ? AND b = ?`, `SELECT * FROM t WHERE a = $1 AND b = $2`},
		{DriverPostgres, `SELECT 1`, `SELECT 1`},
		{DriverPostgres, `INSERT INTO t (a, b) VALUES (?, ?), (?, ?)`, `INSERT INTO t (a, b) VALUES ($1, $2), ($3, $4)`},
	}

	for _, c := range cases {
		if got := rebind(c.driver, c.in); got != c.want {
			t.Fatalf("rebind(%s, %q) = %q want %q", c.driver, c.in, got, c.want)
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"climb.db", "climb.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:x?mode=memory", "file:x?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"a.db?_pragma=foreign_keys(0)", "a.db?_pragma=foreign_keys(0)&_pragma=busy_timeout(5000)"},
		{"a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(1)", "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(1)"},
	}
	for _, c := range cases {
		if got := sqliteDSN(c.in); got != c.want {
			t.Fatalf("sqliteDSN(%q) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestSQLiteFile(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"seekaclimb.db", "seekaclimb.db"},
		{"file:data/climb.db?_pragma=foreign_keys(1)", "data/climb.db"},
		{"/var/lib/climb.db?mode=rwc", "/var/lib/climb.db"},
	}
	for _, c := range cases {
		if got := SQLiteFile(c.in); got != c.want {
			t.Fatalf("SQLiteFile(%q) = %q want %q", c.in, got, c.want)
		}
	}
}
