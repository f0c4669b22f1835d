package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juststeveking/pingscope/internal/chart"
	"github.com/juststeveking/pingscope/internal/logging"
	"github.com/juststeveking/pingscope/internal/monitor"
	"github.com/spf13/cobra"
)

var (
	probeCount int
	probePNG   string
)

var probeCmd = &cobra.Command{
	Use:   "probe <target>",
	Short: "Probe a target without the dashboard",
	Long: `Probe a target and print one line per reply until interrupted.

Examples:
  pingscope probe 1.1.1.1
  pingscope probe google-dns --count 20
  pingscope probe example.com --count 60 --png latency.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		a, err := newApp(cfg, logging.OutputStderr)
		if err != nil {
			return err
		}
		defer a.Close()

		target := cfg.ResolveTarget(args[0])
		if err := a.prober.Start(target); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		series := consume(ctx, a, target, probeCount, cmd.OutOrStdout(), cmd.ErrOrStderr())

		if probePNG != "" {
			if err := chart.WriteFile(probePNG, series.Points(), chart.Options{Title: target}); err != nil {
				return fmt.Errorf("failed to export chart: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Chart written to %s\n", probePNG)
		}

		return nil
	},
}

// consume prints updates and notices until ctx ends or count points
// arrived, then stops the prober and drains its final tick
func consume(ctx context.Context, a *app, target string, count int, out, errOut io.Writer) *monitor.Series {
	series := monitor.NewSeries(a.prober.Config().MaxResults)
	received := 0

	handleUpdate := func(u monitor.Update) {
		if series.Apply(u, a.prober) {
			a.logger.Debug().Uint64("seq", u.Seq).Msg("Display series resynchronised")
		}
		received++
		fmt.Fprintf(out, "%s: %dms\n", u.Point.Time().Format("2006-01-02 15:04:05.000"), u.Point.RoundtripMs)
		a.notifier.Success(target, time.Duration(u.Point.RoundtripMs)*time.Millisecond)
	}
	handleNotice := func(n monitor.Notice) {
		fmt.Fprintln(errOut, n.Message())
		if n.Kind == monitor.NoticeProbeFailure {
			a.notifier.Failure(target, n.Err)
		}
	}

loop:
	for count <= 0 || received < count {
		select {
		case <-ctx.Done():
			break loop
		case u := <-a.sink.Updates():
			handleUpdate(u)
		case n := <-a.sink.Notices():
			handleNotice(n)
		}
	}

	if a.prober.Running() {
		_ = a.prober.Stop()
	}
	a.prober.Wait()

	for {
		select {
		case u := <-a.sink.Updates():
			handleUpdate(u)
		case n := <-a.sink.Notices():
			handleNotice(n)
		default:
			return series
		}
	}
}

func init() {
	probeCmd.Flags().IntVarP(&probeCount, "count", "c", 0, "stop after this many replies (0 runs until interrupted)")
	probeCmd.Flags().StringVar(&probePNG, "png", "", "write a PNG chart of the window to this file on exit")
	rootCmd.AddCommand(probeCmd)
}
