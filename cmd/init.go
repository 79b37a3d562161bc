package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	config "task-tracker.com/task-tracker/internal/configs"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data files and reset the store lock",
	Long:  "Creates missing users, tasks and logs files with their header rows (or the SQLite tables) and resets the Redis store lock when one is configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		stores := config.NewStores(cfg)
		defer stores.Close()

		if err := stores.Init(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s storage initialized\n", cfg.StorageDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
