package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/cuemby/nurseduty/pkg/storage"
)

var (
	fromDir    = flag.String("from-dir", "data", "Directory holding the JSON documents")
	toPath     = flag.String("to", "data/nurseduty.db", "Bolt database to copy the documents into")
	dryRun     = flag.Bool("dry-run", false, "Show what would be copied without making changes")
	backupPath = flag.String("backup", "", "Path to back up an existing database before copying (default: <to>.backup)")
)

func main() {
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("nurseduty document migration - file -> bolt")
	log.Println("===========================================")

	if _, err := os.Stat(*fromDir); os.IsNotExist(err) {
		log.Fatalf("Data directory not found at %s", *fromDir)
	}

	log.Printf("Source: %s", *fromDir)
	log.Printf("Target: %s", *toPath)
	log.Printf("Dry run: %v", *dryRun)

	// Back up an existing database unless in dry-run mode
	if !*dryRun {
		if _, err := os.Stat(*toPath); err == nil {
			backupFile := *backupPath
			if backupFile == "" {
				backupFile = *toPath + ".backup"
			}
			log.Printf("Creating backup: %s", backupFile)
			if err := copyFile(*toPath, backupFile); err != nil {
				log.Fatalf("Failed to create backup: %v", err)
			}
			log.Println("✓ Backup created successfully")
		}
	}

	src := storage.NewFileBackend(*fromDir)

	var dst storage.Backend = storage.NewMemoryBackend()
	if !*dryRun {
		if err := os.MkdirAll(filepath.Dir(*toPath), 0755); err != nil {
			log.Fatalf("Failed to create target directory: %v", err)
		}
		bolt, err := storage.NewBoltBackend(*toPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		dst = bolt
	}

	result, err := migrate(src, dst, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	skipped := make([]string, 0, len(result.Skipped))
	for key := range result.Skipped {
		skipped = append(skipped, key)
	}
	sort.Strings(skipped)
	for _, key := range skipped {
		log.Printf("⚠ Warning: Skipping %s: %s", key, result.Skipped[key])
	}

	if len(result.Copied) == 0 {
		log.Println("✓ No documents found to migrate")
		return
	}

	if *dryRun {
		log.Println("\n[DRY RUN] Would copy the following documents:")
		for _, key := range result.Copied {
			log.Printf("  %s", key)
		}
		log.Println("Run without --dry-run to perform the migration.")
		return
	}

	for _, key := range result.Copied {
		log.Printf("  copied %s", key)
	}
	log.Printf("\n✓ Migrated %d documents", len(result.Copied))
	log.Println("The JSON files are left in place for rollback.")
	log.Println("Start the server with --backend bolt to use the database.")
}

// migrate copies every document and closes dst whether or not the copy
// succeeded, so the database file is never left open on exit.
func migrate(src, dst storage.Backend, dryRun bool) (*storage.CopyResult, error) {
	result, err := storage.CopyDocuments(src, dst, dryRun)
	if closeErr := dst.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close %s backend: %w", dst.Name(), closeErr)
	}
	return result, err
}

func copyFile(src, dst string) error {
	input, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, input, 0600)
}
