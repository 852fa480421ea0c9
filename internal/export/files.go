package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jlaanstra/appxmanifest/internal/xmldoc"
)

// ManifestSource defines the interface for extracting an application
// manifest from a package file
type ManifestSource interface {
	Manifest(path string) (*xmldoc.Document, error)
}

// Exporter writes extracted application manifests to disk
type Exporter struct {
	source    ManifestSource
	outputDir string
}

// NewExporter creates a new manifest exporter
func NewExporter(source ManifestSource, outputDir string) *Exporter {
	return &Exporter{
		source:    source,
		outputDir: outputDir,
	}
}

// ExportManifest extracts the manifest of the package file at pkgPath
// and writes it under the output directory, returning the written
// file's path
func (e *Exporter) ExportManifest(pkgPath string) (string, error) {
	doc, err := e.source.Manifest(pkgPath)
	if err != nil {
		return "", fmt.Errorf("extracting manifest from %s: %w", pkgPath, err)
	}

	// Create output directory
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outputPath := filepath.Join(e.outputDir, manifestFileName(pkgPath))
	if err := os.WriteFile(outputPath, doc.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing manifest %s: %w", outputPath, err)
	}

	slog.Debug("Exported manifest", "package", pkgPath, "output", outputPath)

	return outputPath, nil
}

// manifestFileName derives a flat output file name from a package path.
// Path separators and drive colons become @ so exports from different
// directories cannot collide inside the output directory.
func manifestFileName(pkgPath string) string {
	name := filepath.ToSlash(filepath.Clean(pkgPath))
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, "/", "@")
	name = strings.ReplaceAll(name, ":", "@")
	return name + ".xml"
}
