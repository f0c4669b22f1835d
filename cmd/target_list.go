package cmd

import (
	"fmt"

	"github.com/juststeveking/pingscope/internal/config"
	"github.com/spf13/cobra"
)

var targetListCmd = &cobra.Command{
	Use:   "target:list",
	Short: "List saved targets",
	Long:  `Display all targets saved in the pingscope configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := cmd.OutOrStdout()

		if len(cfg.Targets) == 0 {
			fmt.Fprintln(out, "No targets saved yet.")
			fmt.Fprintln(out, "\nSave a target with:")
			fmt.Fprintln(out, "  pingscope target:add --name <name> --host <host>")
			return nil
		}

		fmt.Fprintf(out, "Saved targets (%d):\n\n", len(cfg.Targets))

		for _, t := range cfg.Targets {
			marker := " "
			if t.Name == cfg.DefaultTarget || t.Host == cfg.DefaultTarget {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %s\n", marker, t.Name)
			fmt.Fprintf(out, "    Host: %s\n", t.Host)
			if resolved := config.ResolveEnv(t.Host); resolved != t.Host {
				fmt.Fprintf(out, "    Resolves to: %s\n", resolved)
			}
			fmt.Fprintln(out)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetListCmd)
}
