package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	dbfs "github.com/garnizeh/seekaclimb/db"
	"github.com/garnizeh/seekaclimb/internal/config"
	"github.com/garnizeh/seekaclimb/internal/db"
	"github.com/garnizeh/seekaclimb/internal/repository/sqlrepo"
)

func main() {
	placesFile := flag.String("places", "", "JSON file with places to load (defaults to the bundled seed)")
	skipSeed := flag.Bool("no-seed", false, "Only run migrations")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	if !*skipSeed {
		var raw []byte
		if *placesFile != "" {
			raw, err = os.ReadFile(*placesFile)
		} else {
			raw, err = dbfs.SeedFiles.ReadFile("seed/places.json")
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Seed read error: %v\n", err)
			os.Exit(1)
		}

		n, err := seedPlaces(ctx, sqlrepo.New(database, nil), raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loaded %d places.\n", n)
	}

	fmt.Println("Database initialized successfully.")
}
