package cmd

import (
	"fmt"

	"github.com/juststeveking/pingscope/internal/config"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pingscope configuration",
	Long: `Create a new pingscope configuration file at ~/.config/pingscope/config.yml
with sensible defaults. Edit this file to tune the probe interval or save targets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(forceInit); err != nil {
			return err
		}

		configPath, _ := config.GetConfigPath()

		if forceInit {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration reset at %s\n", configPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration initialized at %s\n", configPath)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "\nStart probing with:")
		fmt.Fprintln(cmd.OutOrStdout(), "  pingscope <host>")

		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}
