package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/mockshop/database/seeders"
	"github.com/shashiranjanraj/mockshop/pkg/app"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/migration"
)

// mockshop migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ConnectDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		n, err := migration.New(database.DB).Run()
		if err != nil {
			return err
		}
		if n > 0 {
			fmt.Printf("Migrated %d file(s).\n", n)
		}
		return nil
	},
}

// mockshop migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ConnectDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		_, err := migration.New(database.DB).Rollback()
		return err
	},
}

// mockshop migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ConnectDB(); err != nil {
			return err
		}
		return migration.New(database.DB).PrintStatus()
	},
}

// mockshop seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed categories, products, users, discount codes and shop settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ConnectDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(database.DB, os.Stdout)
	},
}
