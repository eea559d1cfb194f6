package cmd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yeisme/videocatalog/pkg/configs"
	ctxPkg "github.com/yeisme/videocatalog/pkg/context"
	"github.com/yeisme/videocatalog/pkg/internal/jobs"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/internal/storage"
)

var purgeDays int

// purgeCmd 立即执行一次回收站清理，不依赖调度器.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "permanently delete rows soft-deleted before the retention window",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if err := loadConfig(); err != nil {
			return err
		}

		days := purgeDays
		if !cmd.Flags().Changed("days") {
			days = configs.GetConfig().Trash.RetentionDays
		}

		m, err := storage.Init(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, m.Close()) }()

		cat := service.NewCatalog(ctxPkg.WithStorageManager(cmd.Context(), m))

		purged, err := jobs.PurgeTrash(cmd.Context(), cat.Purger(), days)
		if err != nil {
			return err
		}

		resources := make([]string, 0, len(purged))
		for r := range purged {
			resources = append(resources, r)
		}

		slices.Sort(resources)

		for _, r := range resources {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %d\n", r, purged[r])
		}

		return nil
	},
}

func registerPurgeCommands() {
	purgeCmd.Flags().IntVar(&purgeDays, "days", 0, "retention in days, defaults to trash.retention_days")
	rootCmd.AddCommand(purgeCmd)
}
