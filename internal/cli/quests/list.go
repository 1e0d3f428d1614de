package quests

import (
	"fmt"

	"github.com/julianstephens/dailyquest/internal/cli"
)

type ListCmd struct {
	IDs bool `help:"Show quest ids."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	s, err := ctx.OpenSession()
	if err != nil {
		return err
	}
	defer s.Close()

	quests := s.Controller.State().Snapshot()
	if len(quests) == 0 {
		fmt.Fprintln(ctx.Out, "No quests yet. Add one with 'dailyquest add'.")
		return nil
	}

	fmt.Fprintf(ctx.Out, "Daily quests for %s:\n\n", s.Controller.Marker())
	for i, q := range quests {
		line := cli.FormatQuest(i+1, q)
		if c.IDs {
			line += fmt.Sprintf("  (%s)", q.ID)
		}
		fmt.Fprintln(ctx.Out, line)
	}

	ratio := s.Reporter.Ratio()
	fmt.Fprintf(ctx.Out, "\n%d/%d done (%.0f%%)\n", quests.CompletedCount(), len(quests), ratio)
	if ratio == 100 {
		fmt.Fprintln(ctx.Out, "✓ All Quests Complete!")
	}
	return nil
}
