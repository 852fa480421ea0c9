package main

import (
	"fmt"
	"strings"

	"github.com/jlaanstra/appxmanifest/internal/appx"
	"github.com/jlaanstra/appxmanifest/internal/utils"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the parts of a package container",
	Long: `List opens a package or bundle container and prints every part with its
content type and uncompressed size. The content type map itself is not a
part and is not listed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := appx.OpenContainer(args[0])
		if err != nil {
			return err
		}
		defer c.Close()

		parts := c.Parts()

		fmt.Printf("%-48s %-44s %10s\n", "Part", "Content Type", "Size")
		fmt.Println(strings.Repeat("-", 104))
		for _, p := range parts {
			fmt.Printf("%-48s %-44s %10s\n", p.Name, p.ContentType, utils.Bytes(p.Size))
		}
		fmt.Printf("\n%s parts\n", utils.Number(int64(len(parts))))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
