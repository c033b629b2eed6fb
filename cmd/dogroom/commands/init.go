package commands

import (
	"github.com/dyluth/dogroom/internal/printer"
	"github.com/dyluth/dogroom/internal/scaffold"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter dogroom.yml",
	Long: `Write a starter dogroom.yml in the current directory.

The file lists every setting with its default value.

Use --force to overwrite an existing dogroom.yml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := scaffold.Initialize(".", forceInit)
		if err != nil {
			return printer.Error("initialization failed", err.Error(), nil)
		}

		printer.Success("Created %s\n", path)
		printer.Info("\nNext steps:\n")
		printer.Info("  1. Start a development Redis: dogroom redis up\n")
		printer.Info("  2. Load the demo data: dogroom seed\n")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing dogroom.yml")
	rootCmd.AddCommand(initCmd)
}
