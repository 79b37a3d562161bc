package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	config "task-tracker.com/task-tracker/internal/configs"
	"task-tracker.com/task-tracker/internal/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive task console",
	Long:  "Prompts for credentials, then lists, creates and updates tasks until you log out",
	RunE:  runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	stores := config.NewStores(cfg)
	defer stores.Close()

	users, tasks := newServices(stores)

	ui := console.NewUI(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), users, tasks)
	if err := ui.Run(cmd.Context()); err != nil && !errors.Is(err, console.ErrInputClosed) {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
