package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/subsmith/subsmith/pkg/dict"
)

// createImportCommand builds the import-jmdict subcommand, which loads a
// JMdict-Simplified JSON export into the sqlite definition database.
func createImportCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "import-jmdict <jmdict-simplified.json>",
		Short: "Import a JMdict-Simplified dictionary into the definition database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := sql.Open("sqlite3", flags.DefsDB)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer conn.Close()

			if err := dict.InitDefinitionDB(conn); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			if _, err := os.Stat(args[0]); os.IsNotExist(err) {
				fmt.Printf("Dictionary not found at %s. Attempting auto-download...\n", args[0])
				if err := dict.EnsureJMdict(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("failed to download dictionary: %w", err)
				}
			}

			fmt.Printf("Loading dictionary from %s...\n", args[0])
			entries, err := dict.LoadJMdictSimplified(args[0])
			if err != nil {
				return fmt.Errorf("failed to load dictionary: %w", err)
			}
			fmt.Printf("Loaded %d entries. Importing...\n", len(entries))

			count, err := dict.ImportJMdict(conn, entries)
			if err != nil {
				return fmt.Errorf("failed to import definitions: %w", err)
			}
			fmt.Printf("Imported definitions for %d terms into %s.\n", count, flags.DefsDB)
			return nil
		},
	}
}
