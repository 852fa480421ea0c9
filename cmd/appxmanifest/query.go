package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jlaanstra/appxmanifest/internal/catalog"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Query the catalog database directly from command line",
	Long: `Query executes SQL against the catalog database, lists the cataloged
packages, or shows the catalog schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		listPackages, err := cmd.Flags().GetBool("list")
		if err != nil {
			return fmt.Errorf("failed to get list flag: %w", err)
		}
		showSchema, err := cmd.Flags().GetBool("schema")
		if err != nil {
			return fmt.Errorf("failed to get schema flag: %w", err)
		}

		slog.Debug("Query parameters",
			"database", cfg.Database,
			"list", listPackages,
			"schema", showSchema)

		cat, err := catalog.Open(catalog.DefaultOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		// Querying a fresh catalog should see an empty table, not a
		// missing one.
		if err := cat.CreateSchema(ctx); err != nil {
			return fmt.Errorf("creating catalog schema: %w", err)
		}

		// Handle --list flag
		if listPackages {
			records, err := cat.Summary(ctx)
			if err != nil {
				return fmt.Errorf("listing cataloged packages: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("Catalog is empty. Run: appxmanifest scan <path>")
				return nil
			}

			fmt.Printf("%-30s %-14s %-12s %-8s %s\n", "Name", "Version", "Architecture", "Kind", "Path")
			fmt.Println(strings.Repeat("-", 100))
			for _, rec := range records {
				fmt.Printf("%-30s %-14s %-12s %-8s %s\n", rec.Name, rec.Version, rec.Architecture, rec.Kind, rec.Path)
			}
			fmt.Printf("\n%d packages\n", len(records))

			return nil
		}

		// Handle --schema flag
		if showSchema {
			rows, err := cat.Query(ctx, `PRAGMA table_info(packages)`)
			if err != nil {
				return fmt.Errorf("getting catalog schema: %w", err)
			}
			defer rows.Close()

			fmt.Println("Schema for table 'packages':")
			fmt.Printf("%-15s %-10s %-8s %-8s\n", "Column", "Type", "NotNull", "Primary")
			fmt.Println(strings.Repeat("-", 45))

			for rows.Next() {
				var cid int
				var name, dataType string
				var notNull int
				var defaultValue, primaryKey interface{}

				if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &primaryKey); err != nil {
					return fmt.Errorf("scanning schema row: %w", err)
				}

				primaryStr := "NO"
				if primaryKey != nil && fmt.Sprintf("%v", primaryKey) != "0" {
					primaryStr = "YES"
				}

				fmt.Printf("%-15s %-10s %-8s %-8s\n",
					name, dataType,
					map[int]string{0: "NO", 1: "YES"}[notNull],
					primaryStr)
			}

			if err := rows.Err(); err != nil {
				return fmt.Errorf("iterating schema: %w", err)
			}

			return nil
		}

		// Handle SQL query execution
		if len(args) > 0 {
			query := args[0]
			slog.Debug("Executing SQL query", "query", query)

			rows, err := cat.Query(ctx, query)
			if err != nil {
				return fmt.Errorf("executing query: %w", err)
			}
			defer rows.Close()

			// Get column names
			columns, err := rows.Columns()
			if err != nil {
				return fmt.Errorf("getting column names: %w", err)
			}

			// Print column headers
			for i, col := range columns {
				if i > 0 {
					fmt.Print("\t")
				}
				fmt.Print(col)
			}
			fmt.Println()

			// Print separator
			for i, col := range columns {
				if i > 0 {
					fmt.Print("\t")
				}
				fmt.Print(strings.Repeat("-", len(col)))
			}
			fmt.Println()

			// Print rows
			for rows.Next() {
				values := make([]interface{}, len(columns))
				valuePtrs := make([]interface{}, len(columns))
				for i := range values {
					valuePtrs[i] = &values[i]
				}

				if err := rows.Scan(valuePtrs...); err != nil {
					return fmt.Errorf("scanning row: %w", err)
				}

				for i, val := range values {
					if i > 0 {
						fmt.Print("\t")
					}
					switch v := val.(type) {
					case nil:
						fmt.Print("NULL")
					case []byte:
						// Text columns come back as byte slices.
						fmt.Print(string(v))
					default:
						fmt.Print(v)
					}
				}
				fmt.Println()
			}

			if err := rows.Err(); err != nil {
				return fmt.Errorf("iterating rows: %w", err)
			}

			return nil
		}

		return fmt.Errorf("no query provided, use --list to list packages or --schema to show the catalog schema")
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("list", false, "List cataloged packages")
	queryCmd.Flags().Bool("schema", false, "Show the catalog schema")
}
