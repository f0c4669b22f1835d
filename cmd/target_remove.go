package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/juststeveking/pingscope/internal/config"
	"github.com/spf13/cobra"
)

var (
	forceRemove bool
)

var targetRemoveCmd = &cobra.Command{
	Use:   "target:remove <name>",
	Short: "Remove a saved target",
	Long: `Remove a saved target by name from your pingscope configuration.

Example:
  pingscope target:remove gateway
  pingscope target:remove office --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if !forceRemove {
			fmt.Fprintf(cmd.OutOrStdout(), "Remove target '%s'? (y/N): ", name)
			reader := bufio.NewReader(cmd.InOrStdin())
			response, err := reader.ReadString('\n')
			if err != nil {
				return err
			}

			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := cfg.RemoveTarget(name); err != nil {
			return err
		}

		if err := config.SaveConfig(cfg); err != nil {
			return err
		}

		configPath, _ := config.GetConfigPath()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed target '%s' from %s\n", name, configPath)

		return nil
	},
}

func init() {
	targetRemoveCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "skip confirmation prompt")
	rootCmd.AddCommand(targetRemoveCmd)
}
