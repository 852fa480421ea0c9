package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jlaanstra/appxmanifest/internal/appx"
	"github.com/jlaanstra/appxmanifest/internal/xmldoc"
	"github.com/spf13/cobra"
)

var (
	extractBundle  bool
	extractPackage bool
	extractOutput  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the application manifest from a package or bundle",
	Long: `Extract opens an appx or msix package (or bundle) and prints its
application manifest XML to stdout without unpacking the archive to disk.

By default the container kind is inferred from the file extension:
.appxbundle and .msixbundle files are treated as bundles, everything else
as plain packages. Use --bundle or --package to override the inference.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if extractBundle && extractPackage {
			return fmt.Errorf("--bundle and --package are mutually exclusive")
		}

		bundle := isBundlePath(path)
		if extractBundle {
			bundle = true
		}
		if extractPackage {
			bundle = false
		}

		slog.Debug("Extracting manifest", "path", path, "bundle", bundle)

		var doc *xmldoc.Document
		var err error
		if bundle {
			doc, err = appx.ExtractFromBundle(path)
		} else {
			doc, err = appx.ExtractFromPackage(path)
		}
		if err != nil {
			return err
		}

		data := doc.Bytes()
		if extractOutput != "" {
			if err := os.WriteFile(extractOutput, data, 0644); err != nil {
				return fmt.Errorf("writing manifest to %s: %w", extractOutput, err)
			}
			slog.Info("Wrote manifest", "path", extractOutput, "size_bytes", len(data))
			return nil
		}

		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing manifest to stdout: %w", err)
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Println()
		}

		return nil
	},
}

// isBundlePath reports whether path names a bundle by extension
func isBundlePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".appxbundle", ".msixbundle":
		return true
	}
	return false
}

// extractManifest extracts the manifest of the file at path, treating it
// as a bundle or plain package according to its extension
func extractManifest(path string) (*xmldoc.Document, error) {
	if isBundlePath(path) {
		return appx.ExtractFromBundle(path)
	}
	return appx.ExtractFromPackage(path)
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractBundle, "bundle", false, "Treat the file as a bundle regardless of extension")
	extractCmd.Flags().BoolVar(&extractPackage, "package", false, "Treat the file as a plain package regardless of extension")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write the manifest to a file instead of stdout")
}
