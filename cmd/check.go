package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	config "task-tracker.com/task-tracker/internal/configs"
	model "task-tracker.com/task-tracker/internal/models"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report task rows whose assignee no longer exists",
	Long:  "Loads every task row and lists those hidden from the task list because their assigned user cannot be found",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		stores := config.NewStores(cfg)
		defer stores.Close()

		_, tasks := newServices(stores)

		records, err := tasks.Integrity(cmd.Context())
		if err != nil {
			return err
		}

		dangling := 0
		for _, rec := range records {
			if rec.Resolution != model.DanglingAssignee {
				continue
			}
			dangling++
			fmt.Fprintf(cmd.OutOrStdout(), "task %d (%s): %s %d\n",
				rec.Task.Code, rec.Task.Name, rec.Resolution, rec.AssigneeCode)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d tasks, %d with a dangling assignee\n", len(records), dangling)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
