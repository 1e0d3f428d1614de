package quests

import (
	"fmt"

	"github.com/julianstephens/dailyquest/internal/cli"
)

type ToggleCmd struct {
	Quest string `arg:"" help:"Quest id, id prefix, or list position."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	s, err := ctx.OpenSession(cli.WithCelebrator(cli.PrintCelebrator(ctx.Out)))
	if err != nil {
		return err
	}
	defer s.Close()

	state := s.Controller.State()
	q, err := cli.ResolveQuest(state.Snapshot(), c.Quest)
	if err != nil {
		return err
	}
	if q.IsCounter() {
		return fmt.Errorf("%q is a counter quest, use 'dailyquest progress'", q.Text)
	}

	_, writeErr := state.Toggle(q.ID)
	quests := state.Snapshot()
	i := quests.Find(q.ID)
	fmt.Fprintln(ctx.Out, cli.FormatQuest(i+1, quests[i]))
	ctx.WarnWrite(writeErr)
	return nil
}
