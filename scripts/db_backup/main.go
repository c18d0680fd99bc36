package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/seekaclimb/internal/config"
	"github.com/garnizeh/seekaclimb/internal/db"
)

func main() {
	out := flag.String("out", "", "Backup file (defaults to <database>.bak)")
	flag.Parse()

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseDriver != db.DriverSQLite {
		fmt.Fprintf(os.Stderr, "Backup error: only the sqlite driver is supported, use pg_dump for %s\n", cfg.DatabaseDriver)
		os.Exit(1)
	}

	dst := *out
	if dst == "" {
		dst = db.SQLiteFile(cfg.DatabaseDSN) + ".bak"
	}
	// VACUUM INTO refuses to overwrite an existing file.
	if _, err := os.Stat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if _, err := database.Exec(ctx, "VACUUM INTO ?", dst); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database backup written to %s.\n", dst)
}
