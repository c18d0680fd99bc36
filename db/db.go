package db

import "embed"

// Migrations holds one directory of ordered SQL files per supported driver.
//
//go:embed migrations
var Migrations embed.FS

// SeedFiles holds sample data loaded by scripts/db_init.
//
//go:embed seed/*.json
var SeedFiles embed.FS
