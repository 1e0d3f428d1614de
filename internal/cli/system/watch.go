package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/dailyquest/internal/cli"
	"github.com/julianstephens/dailyquest/internal/lifecycle"
)

type WatchCmd struct {
	Interval time.Duration `help:"Day check interval. Defaults to check_interval from the settings file."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	onReset := lifecycle.OnReset(func(previous, today string) {
		fmt.Fprintf(ctx.Out, "↻ New day %s: quests reset (last visit %s)\n", today, previous)
	})
	s, err := ctx.OpenSession(cli.WithCelebrator(cli.PrintCelebrator(ctx.Out)), cli.WithLifecycle(onReset))
	if err != nil {
		return err
	}
	defer s.Close()

	interval := c.Interval
	if interval <= 0 {
		interval = ctx.Config.Interval()
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	foreground := make(chan struct{}, 1)
	go forwardForeground(runCtx, foreground)

	fmt.Fprintf(ctx.Out, "Watching for the day change every %s (logical day %s). Press Ctrl+C to stop.\n",
		interval, s.Controller.Marker())
	err = s.Controller.Watch(runCtx, interval, foreground)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(ctx.Out, "Stopped.")
		return nil
	}
	return err
}

// forwardForeground turns resume signals into foreground events until ctx is done.
func forwardForeground(ctx context.Context, out chan<- struct{}) {
	sigs := foregroundSignals()
	if len(sigs) == 0 {
		return
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}
