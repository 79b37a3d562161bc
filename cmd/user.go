package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	config "task-tracker.com/task-tracker/internal/configs"
	model "task-tracker.com/task-tracker/internal/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var (
	newUserCode     int
	newUserName     string
	newUserEmail    string
	newUserPassword string
)

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user who can log in and be assigned tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if newUserCode < 0 {
			return fmt.Errorf("--code must not be negative")
		}

		cfg := loadConfig()
		stores := config.NewStores(cfg)
		defer stores.Close()

		ctx := cmd.Context()
		existing, err := stores.Users.FindByCode(ctx, newUserCode)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("user code %d is already in use", newUserCode)
		}

		user := model.User{
			Code:     newUserCode,
			Name:     newUserName,
			Email:    newUserEmail,
			Password: newUserPassword,
		}
		if err := stores.Users.Save(ctx, user); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) added\n", user.Code, user.Name)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		stores := config.NewStores(cfg)
		defer stores.Close()

		users, err := stores.Users.FindAll(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.Code, u.Name, u.Email)
		}
		return nil
	},
}

func init() {
	userAddCmd.Flags().IntVar(&newUserCode, "code", 0, "numeric user code")
	userAddCmd.Flags().StringVar(&newUserName, "name", "", "display name")
	userAddCmd.Flags().StringVar(&newUserEmail, "email", "", "login email address")
	userAddCmd.Flags().StringVar(&newUserPassword, "password", "", "login password")
	for _, f := range []string{"code", "name", "email", "password"} {
		_ = userAddCmd.MarkFlagRequired(f)
	}

	userCmd.AddCommand(userAddCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}
