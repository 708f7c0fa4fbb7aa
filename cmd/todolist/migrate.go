package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joaoVitorVallim/ToDoList/internal/storage"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := storage.MigrateUp(a.repo.DB()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date: %s\n", a.cfg.DBPath)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Drop every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := storage.MigrateDown(a.repo.DB()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema dropped: %s\n", a.cfg.DBPath)
			return nil
		},
	})
	return cmd
}
