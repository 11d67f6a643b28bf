package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdcards/internal/build"
	"github.com/gerunddev/mdcards/internal/styles"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild decks periodically until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Flags())
		if err != nil {
			return err
		}
		defer s.close()

		if cmd.Flags().Changed("interval") {
			if watchInterval <= 0 {
				return fmt.Errorf("interval must be positive")
			}
			s.cfg.Interval = watchInterval
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, styles.InfoStyle.Render(fmt.Sprintf("Watching %s every %v (Ctrl+C to stop)", s.cfg.NotesDir, s.cfg.Interval)))
		s.log.Info("watch started", "interval", s.cfg.Interval)

		watch(ctx, s.builder, s.cfg.Interval, func(r *build.Result, err error) {
			if err != nil {
				s.log.Error("build failed", "error", err)
				return
			}
			s.saveState()
			if len(r.Written) > 0 || len(r.Orphaned) > 0 {
				printResult(out, r)
			}
		})

		s.saveState()
		s.log.Info("watch stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Time between builds")

	rootCmd.AddCommand(watchCmd)
}

// watch builds once immediately and then on every tick until ctx is done.
// Failed builds are reported to done and do not stop the loop.
func watch(ctx context.Context, b *build.Builder, interval time.Duration, done func(*build.Result, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done(b.Build(ctx, build.Options{}))

	for {
		select {
		case <-ticker.C:
			done(b.Build(ctx, build.Options{}))
		case <-ctx.Done():
			return
		}
	}
}
