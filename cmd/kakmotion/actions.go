package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/kakmotion/internal/app"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the available selection commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(opts)
		if err != nil {
			return err
		}
		defer application.Close()

		for _, name := range application.Dispatcher().Actions() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}
