package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"campmeals/internal/config"
	"campmeals/internal/db"
	"campmeals/internal/importer"
	"campmeals/internal/store"
)

func main() {
	_ = godotenv.Load()

	dir := ""
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	summary, err := run(context.Background(), dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "import complete: %s\n", summary)
}

// run imports the legacy ingredient and recipe files found in dir. An empty dir falls
// back to IMPORT_SOURCE_DIR.
func run(ctx context.Context, dir string) (importer.Summary, error) {
	cfg, err := config.Load()
	if err != nil {
		return importer.Summary{}, fmt.Errorf("load config: %w", err)
	}

	if strings.TrimSpace(dir) == "" {
		dir = cfg.Import.SourceDir
	}
	if _, err := os.Stat(dir); err != nil {
		return importer.Summary{}, fmt.Errorf("locate source directory: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return importer.Summary{}, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return importer.Summary{}, fmt.Errorf("auto migrate: %w", err)
	}

	return importer.New(store.New(database)).RunDir(ctx, dir)
}
