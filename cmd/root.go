package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/juststeveking/pingscope/internal/logging"
	"github.com/juststeveking/pingscope/internal/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "pingscope [target]",
	Short:   "Chart the latency to a host from the terminal",
	Version: version,
	Long: `pingscope sends one ICMP echo request per interval to a target host and
charts the most recent round-trip times in a terminal dashboard.

Pass a host (or the name of a saved target) to start probing straight away,
or press s inside the dashboard to pick one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}

		a, err := newApp(cfg, logging.OutputFile)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			if err := a.prober.Start(cfg.ResolveTarget(args[0])); err != nil {
				return err
			}
		}

		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}

		model := tui.NewModel(a.prober, a.sink, cfg, a.notifier).WithExportDir(cwd)
		p := tea.NewProgram(model, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "", "log output: file, console, stderr or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides the config file)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
