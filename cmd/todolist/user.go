package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joaoVitorVallim/ToDoList/internal/tasks"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var in tasks.UserInput
	var noNotify bool
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.NotificationsEnabled = !noNotify
			u, err := a.svc.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", u.ID)
			return nil
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "display name")
	add.Flags().StringVar(&in.Email, "email", "", "email address")
	add.Flags().Int64Var(&in.TelegramChatID, "telegram-chat", 0, "Telegram chat id for reminders")
	add.Flags().BoolVar(&noNotify, "no-notify", false, "do not send reminders to this user")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("email")

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := a.svc.ListUsers(cmd.Context(), false)
			if err != nil {
				return err
			}
			renderUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}

	notifications := &cobra.Command{
		Use:   "notify USER on|off",
		Short: "Enable or disable reminders for a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.svc.ResolveUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var enabled bool
			switch args[1] {
			case "on":
				enabled = true
			case "off":
			default:
				return fmt.Errorf("expected on or off, got %q", args[1])
			}
			if _, err := a.svc.SetNotifications(cmd.Context(), u.ID, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "notifications %s for %s\n", args[1], u.Email)
			return nil
		},
	}

	cmd.AddCommand(add, list, notifications)
	return cmd
}
