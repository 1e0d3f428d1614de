package quests

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/julianstephens/dailyquest/internal/cli"
)

type ProgressCmd struct {
	Quest string `arg:"" help:"Quest id, id prefix, or list position."`
	Value string `arg:"" optional:"" help:"New current value."`
	Inc   bool   `help:"Step the counter up." xor:"step"`
	Dec   bool   `help:"Step the counter down." xor:"step"`
	By    int    `help:"Step size for --inc/--dec." default:"1"`
}

func (c *ProgressCmd) Validate() error {
	stepping := c.Inc || c.Dec
	switch {
	case c.Value == "" && !stepping:
		return errors.New("give a value or one of --inc/--dec")
	case c.Value != "" && stepping:
		return errors.New("a value cannot be combined with --inc/--dec")
	case stepping && c.By <= 0:
		return fmt.Errorf("--by must be positive, got %d", c.By)
	}
	if c.Value != "" {
		if _, err := strconv.Atoi(c.Value); err != nil {
			return fmt.Errorf("value must be a whole number, got %q", c.Value)
		}
	}
	return nil
}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
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
	if !q.IsCounter() {
		return fmt.Errorf("%q is not a counter quest, use 'dailyquest toggle'", q.Text)
	}

	var writeErr error
	switch {
	case c.Inc:
		_, writeErr = state.Increment(q.ID, c.By)
	case c.Dec:
		_, writeErr = state.Increment(q.ID, -c.By)
	default:
		n, _ := strconv.Atoi(c.Value)
		_, writeErr = state.UpdateProgress(q.ID, n)
	}

	quests := state.Snapshot()
	i := quests.Find(q.ID)
	fmt.Fprintln(ctx.Out, cli.FormatQuest(i+1, quests[i]))
	ctx.WarnWrite(writeErr)
	return nil
}
