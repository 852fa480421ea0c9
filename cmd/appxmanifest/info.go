package main

import (
	"fmt"
	"log/slog"

	"github.com/jlaanstra/appxmanifest/internal/utils"
	"github.com/jlaanstra/appxmanifest/internal/xmldoc"
	"github.com/spf13/cobra"
)

// identity holds the attributes of a manifest's Identity element
type identity struct {
	Name         string
	Publisher    string
	Version      string
	Architecture string
}

// readIdentity pulls the Identity element out of a parsed manifest
func readIdentity(doc *xmldoc.Document) (identity, bool) {
	el := doc.Root.Child("Identity")
	if el == nil {
		return identity{}, false
	}

	return identity{
		Name:         el.Attr("Name"),
		Publisher:    el.Attr("Publisher"),
		Version:      el.Attr("Version"),
		Architecture: el.Attr("ProcessorArchitecture"),
	}, true
}

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show identity information from a package manifest",
	Long: `Info extracts the application manifest of a package or bundle and
prints the attributes of its Identity element.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		doc, err := extractManifest(path)
		if err != nil {
			return err
		}

		id, ok := readIdentity(doc)
		if !ok {
			return fmt.Errorf("manifest of %s has no Identity element", path)
		}

		if id.Version != "" {
			if _, err := utils.ParseVersion(id.Version); err != nil {
				slog.Warn("Manifest carries a malformed package version", "version", id.Version, "error", err)
			}
		}

		fmt.Printf("Name:         %s\n", id.Name)
		fmt.Printf("Publisher:    %s\n", id.Publisher)
		fmt.Printf("Version:      %s\n", id.Version)
		fmt.Printf("Architecture: %s\n", id.Architecture)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
