package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/kakmotion/internal/app"
	"github.com/dshills/kakmotion/internal/config/loader"
)

var (
	exportInto    string
	exportInPlace bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Work with editor settings.json files",
}

var settingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the effective units as settings.json unit lists",
	Long: `Write the effective unit table as "selection-utilities.motionUnits" lists:
the generic units at the top level and each language's units under its
"[language]" override. Other settings in --into are kept.

Examples:
  kakmotion settings export > settings.json
  kakmotion settings export --into ~/.config/Code/User/settings.json --in-place`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(opts)
		if err != nil {
			return err
		}
		defer application.Close()

		var data []byte
		if exportInto != "" {
			data, err = os.ReadFile(exportInto)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}

		out, err := loader.ExportSettings(data, application.Config().AllUnits())
		if err != nil {
			return err
		}

		if exportInPlace {
			if exportInto == "" {
				return fmt.Errorf("--in-place requires --into")
			}
			return os.WriteFile(exportInto, out, 0o644)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	settingsExportCmd.Flags().StringVar(&exportInto, "into", "", "existing settings.json to merge into")
	settingsExportCmd.Flags().BoolVar(&exportInPlace, "in-place", false, "overwrite --into instead of printing")
	settingsCmd.AddCommand(settingsExportCmd)
	rootCmd.AddCommand(settingsCmd)
}
