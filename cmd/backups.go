package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsugix/tsugix/internal/backup"
	"github.com/tsugix/tsugix/internal/ui"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List files backed up before an auto-applied fix",
	Args:  cobra.NoArgs,
	RunE:  runBackups,
}

func runBackups(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	records, err := backup.List(wd)
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}
	if len(records) == 0 {
		fmt.Println(ui.MutedStyle.Render("no backups found"))
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s %s  %s -> %s\n",
			ui.Bullet(),
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			ui.SecondaryStyle.Render(rec.OriginalPath),
			ui.MutedStyle.Render(rec.BackupPath))
	}
	return nil
}
