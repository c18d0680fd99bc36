package db_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	dbpkg "github.com/garnizeh/seekaclimb/internal/db"
)

func memoryDSN(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return "file:" + name + "?mode=memory&cache=shared"
}

func TestNew_Close_GetConn(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	d, err := dbpkg.New(ctx, dbpkg.DriverSQLite, memoryDSN(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if d.GetConn() == nil {
		t.Fatalf("expected non-nil sql.DB from GetConn")
	}
	if d.Driver() != dbpkg.DriverSQLite {
		t.Fatalf("expected driver %q got %q", dbpkg.DriverSQLite, d.Driver())
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := dbpkg.New(context.Background(), "oracle", "whatever"); err == nil {
		t.Fatalf("expected error for unsupported driver, got nil")
	}
}

func TestExec_QueryRow(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, dbpkg.DriverSQLite, memoryDSN(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT UNIQUE)`); err != nil {
		t.Fatalf("Exec create table returned error: %v", err)
	}

	var id int64
	if err := d.QueryRow(ctx, `INSERT INTO items (name) VALUES (?) RETURNING id`, "foo").Scan(&id); err != nil {
		t.Fatalf("insert returned error: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected id > 0")
	}

	var name string
	if err := d.QueryRow(ctx, `SELECT name FROM items WHERE id = ?`, id).Scan(&name); err != nil {
		t.Fatalf("QueryRow scan returned error: %v", err)
	}
	if name != "foo" {
		t.Fatalf("expected name 'foo' got %q", name)
	}

	// unique violation is mapped to the duplicate sentinel
	_, err = d.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, "foo")
	if !dbpkg.IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	err = d.QueryRow(ctx, `SELECT name FROM items WHERE id = ?`, 9999).Scan(&name)
	if !dbpkg.IsNotFound(dbpkg.MapError(err)) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, dbpkg.DriverSQLite, memoryDSN(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()

	stmts := []string{
		`CREATE TABLE parents (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE children (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parents(id))`,
	}
	for _, s := range stmts {
		if _, err := d.Exec(ctx, s); err != nil {
			t.Fatalf("setup schema: %v", err)
		}
	}

	_, err = d.Exec(ctx, `INSERT INTO children (parent_id) VALUES (?)`, 42)
	if !dbpkg.IsForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, dbpkg.DriverSQLite, memoryDSN(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	count := func() int {
		var n int
		if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		return n
	}

	// commit
	err = d.WithTx(ctx, func(tx *dbpkg.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, "a")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx commit: %v", err)
	}
	if n := count(); n != 1 {
		t.Fatalf("expected 1 row after commit got %d", n)
	}

	// rollback on error
	boom := errors.New("boom")
	err = d.WithTx(ctx, func(tx *dbpkg.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, "b"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error got %v", err)
	}
	if n := count(); n != 1 {
		t.Fatalf("expected rollback to keep 1 row got %d", n)
	}

	// rollback on panic
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = d.WithTx(ctx, func(tx *dbpkg.Tx) error {
			if _, err := tx.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, "c"); err != nil {
				return err
			}
			panic("kaboom")
		})
	}()
	if n := count(); n != 1 {
		t.Fatalf("expected rollback after panic to keep 1 row got %d", n)
	}
}
