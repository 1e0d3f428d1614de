package days

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailyquest/internal/cli"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	s, err := ctx.OpenSession()
	if err != nil {
		return err
	}
	defer s.Close()

	cal := s.Controller.Calendar()
	quests := s.Controller.State().Snapshot()
	reset := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(cal.Cutoff()).Format("3:04 PM")

	fmt.Fprintf(ctx.Out, "Now:          %s\n", cal.Now().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(ctx.Out, "Logical day:  %s\n", cal.Today())
	fmt.Fprintf(ctx.Out, "Last visit:   %s\n", s.Controller.Marker())
	fmt.Fprintf(ctx.Out, "Resets daily: %s (%s)\n", reset, cal.Location())
	fmt.Fprintf(ctx.Out, "Progress:     %d/%d done (%.0f%%)\n", quests.CompletedCount(), len(quests), s.Reporter.Ratio())
	fmt.Fprintf(ctx.Out, "Store:        %s\n", ctx.Store.GetConfigPath())
	return nil
}
