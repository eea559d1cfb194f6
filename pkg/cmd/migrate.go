package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/videocatalog/pkg/internal/storage/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "create or update the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if err := loadConfig(); err != nil {
			return err
		}

		client, err := db.New(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, client.Close()) }()

		if err := client.Migrate(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "migrated")

		return nil
	},
}

func registerMigrateCommands() {
	rootCmd.AddCommand(migrateCmd)
}
