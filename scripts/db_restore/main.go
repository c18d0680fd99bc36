package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/garnizeh/seekaclimb/internal/config"
	"github.com/garnizeh/seekaclimb/internal/db"
)

func main() {
	in := flag.String("in", "", "Backup file (defaults to <database>.bak)")
	flag.Parse()

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseDriver != db.DriverSQLite {
		fmt.Fprintf(os.Stderr, "Restore error: only the sqlite driver is supported, use pg_restore for %s\n", cfg.DatabaseDriver)
		os.Exit(1)
	}

	dst := db.SQLiteFile(cfg.DatabaseDSN)
	src := *in
	if src == "" {
		src = dst + ".bak"
	}

	srcFile, err := os.Open(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	// journal files of the replaced database
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		os.Remove(dst + suffix)
	}

	fmt.Println("Database restore completed.")
}
