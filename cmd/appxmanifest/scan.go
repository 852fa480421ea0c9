package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaanstra/appxmanifest/internal/appx"
	"github.com/jlaanstra/appxmanifest/internal/catalog"
	"github.com/jlaanstra/appxmanifest/internal/export"
	"github.com/jlaanstra/appxmanifest/internal/utils"
	"github.com/jlaanstra/appxmanifest/internal/xmldoc"
	"github.com/spf13/cobra"
)

type ScanStats struct {
	StartTime time.Time
	EndTime   time.Time
	Files     int
	Cataloged int
	Failures  int
}

var (
	manifestDir string
)

// packageExtensions maps recognized file extensions to the catalog kind
// recorded for them
var packageExtensions = map[string]string{
	".appx":       "package",
	".msix":       "package",
	".appxbundle": "bundle",
	".msixbundle": "bundle",
}

var scanCmd = &cobra.Command{
	Use:   "scan <path>...",
	Short: "Scan package files into the catalog database",
	Long: `Scan walks the given files and directories, extracts the application
manifest of every package and bundle it finds, and records each file's
identity in the catalog database.

Files with unrecognized extensions are skipped. Extraction failures are
logged and counted but do not abort the scan. With --manifest-dir the
extracted manifests are additionally written to the given directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		stats := &ScanStats{StartTime: time.Now()}

		files, err := discoverPackageFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			slog.Info("No package files found")
			return nil
		}
		stats.Files = len(files)

		cat, err := catalog.Open(catalog.DefaultOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		if err := cat.CreateSchema(ctx); err != nil {
			return fmt.Errorf("creating catalog schema: %w", err)
		}

		var exporter *export.Exporter
		if manifestDir != "" {
			exporter = export.NewExporter(manifestExtractor{}, manifestDir)
		}

		slog.Info("Scanning package files", "count", len(files), "database", cfg.Database)

		progress := utils.NewProgress(len(files), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))

		var records []catalog.Record
		for i, file := range files {
			progress.Update(i+1, filepath.Base(file))

			rec, err := scanFile(file)
			if err != nil {
				slog.Error("Failed to scan package file", "path", file, "error", err)
				stats.Failures++
				continue
			}

			if exporter != nil {
				if _, err := exporter.ExportManifest(file); err != nil {
					slog.Error("Failed to export manifest", "path", file, "error", err)
					stats.Failures++
					continue
				}
			}

			records = append(records, rec)
		}

		progress.Finish()

		if err := cat.Upsert(ctx, records); err != nil {
			return fmt.Errorf("cataloging records: %w", err)
		}
		stats.Cataloged = len(records)
		stats.EndTime = time.Now()

		duration := stats.EndTime.Sub(stats.StartTime)
		var scanRate float64
		if seconds := duration.Seconds(); seconds > 0 {
			scanRate = float64(stats.Files) / seconds
		}

		fmt.Printf("Files scanned: %s\n", utils.Number(int64(stats.Files)))
		fmt.Printf("Packages cataloged: %s\n", utils.Number(int64(stats.Cataloged)))
		fmt.Printf("Failures: %d\n", stats.Failures)
		fmt.Printf("Duration: %s\n", utils.Duration(duration))
		fmt.Printf("Scan rate: %s files/sec\n", utils.Rate(scanRate))
		fmt.Println("Try running: appxmanifest query --list")

		return nil
	},
}

// manifestExtractor adapts the manifest extraction functions to the
// export.ManifestSource interface
type manifestExtractor struct{}

func (manifestExtractor) Manifest(path string) (*xmldoc.Document, error) {
	return extractManifest(path)
}

// discoverPackageFiles expands the given paths into a list of package
// files. Directories are walked recursively; files with unrecognized
// extensions are skipped with a warning.
func discoverPackageFiles(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading path %s: %w", p, err)
		}

		if !info.IsDir() {
			if _, ok := packageExtensions[strings.ToLower(filepath.Ext(p))]; !ok {
				slog.Warn("Skipping file with unrecognized extension", "path", p)
				continue
			}
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := packageExtensions[strings.ToLower(filepath.Ext(path))]; ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory %s: %w", p, err)
		}
	}

	return files, nil
}

// scanFile extracts one file's manifest and builds its catalog record.
// A manifest without an Identity element still yields a record; the
// identity fields stay empty.
func scanFile(path string) (catalog.Record, error) {
	kind := packageExtensions[strings.ToLower(filepath.Ext(path))]

	var doc *xmldoc.Document
	var err error
	if kind == "bundle" {
		doc, err = appx.ExtractFromBundle(path)
	} else {
		doc, err = appx.ExtractFromPackage(path)
	}
	if err != nil {
		return catalog.Record{}, err
	}

	rec := catalog.Record{
		Path:      path,
		Kind:      kind,
		ScannedAt: time.Now(),
	}

	if id, ok := readIdentity(doc); ok {
		rec.Name = id.Name
		rec.Publisher = id.Publisher
		rec.Version = id.Version
		rec.Architecture = id.Architecture
	} else {
		slog.Warn("Manifest has no Identity element", "path", path)
	}

	digest, size, err := hashFile(path)
	if err != nil {
		return catalog.Record{}, err
	}
	rec.SHA256 = digest
	rec.SizeBytes = size

	return rec, nil
}

// hashFile returns the hex SHA-256 digest and size of the file at path
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hashing file %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), size, nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&manifestDir, "manifest-dir", "", "Write extracted manifests to this directory")
}
