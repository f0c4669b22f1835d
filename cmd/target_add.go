package cmd

import (
	"fmt"

	"github.com/juststeveking/pingscope/internal/config"
	"github.com/spf13/cobra"
)

var (
	targetName string
	targetHost string
)

var targetAddCmd = &cobra.Command{
	Use:   "target:add",
	Short: "Save a target to probe by name",
	Long: `Add a named target to your pingscope configuration.

Examples:
  pingscope target:add --name google-dns --host 8.8.8.8
  pingscope target:add --name gateway --host 192.168.1.1
  pingscope target:add --name office --host '${OFFICE_HOST}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if targetName == "" {
			return fmt.Errorf("target name is required (--name)")
		}
		if targetHost == "" {
			return fmt.Errorf("target host is required (--host)")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := cfg.AddTarget(config.Target{Name: targetName, Host: targetHost}); err != nil {
			return err
		}

		if err := config.SaveConfig(cfg); err != nil {
			return err
		}

		configPath, _ := config.GetConfigPath()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added target '%s' to %s\n", targetName, configPath)

		return nil
	},
}

func init() {
	targetAddCmd.Flags().StringVarP(&targetName, "name", "n", "", "target name (required)")
	targetAddCmd.Flags().StringVar(&targetHost, "host", "", "host name or IP address (required)")

	targetAddCmd.MarkFlagRequired("name")
	targetAddCmd.MarkFlagRequired("host")

	rootCmd.AddCommand(targetAddCmd)
}
