package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "task-tracker.com/task-tracker/internal/configs"
	"task-tracker.com/task-tracker/internal/services"
)

var rootCmd = &cobra.Command{
	Use:           "task-tracker",
	Short:         "Console task tracker",
	Long:          "Tracks tasks assigned to users through not started, in progress and done. Runs the interactive console when no subcommand is given.",
	RunE:          runConsole,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	return config.Load()
}

func newServices(stores *config.Stores) (*services.UserService, *services.TaskService) {
	users := services.NewUserService(stores.Users)
	tasks := services.NewTaskService(
		stores.Tasks,
		stores.Logs,
		stores.Users,
		services.WithLocker(stores.Locker),
	)
	return users, tasks
}
