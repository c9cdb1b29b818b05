package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/app"
)

// mockshop products:export FILE
var productsExportCmd = &cobra.Command{
	Use:   "products:export FILE",
	Short: "Write the product catalog to an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ConnectDB(); err != nil {
			return err
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := services.NewProductAdminService().Export(cmd.Context(), f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Products written to %s\n", args[0])
		return nil
	},
}
