package quests

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/julianstephens/dailyquest/internal/cli"
)

type DeleteCmd struct {
	Quest string `arg:"" help:"Quest id, id prefix, or list position."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
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

	if !c.Yes {
		fmt.Fprintf(ctx.Out, "Delete quest %q? [y/N]: ", q.Text)
		response, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && response == "" {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(ctx.Out, "Delete cancelled.")
			return nil
		}
	}

	_, writeErr := state.Delete(q.ID)
	fmt.Fprintf(ctx.Out, "✓ Deleted quest: %s\n", q.Text)
	ctx.WarnWrite(writeErr)
	return nil
}
