package quests

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/dailyquest/internal/cli"
)

type AddCmd struct {
	Text   string `arg:"" help:"Quest text."`
	Target int    `help:"Make a counter quest with this target."`
	Unit   string `help:"Unit for a counter quest (e.g. steps)."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return errors.New("quest text cannot be empty")
	}
	if c.Target < 0 {
		return fmt.Errorf("target must be positive, got %d", c.Target)
	}
	if c.Unit != "" && c.Target == 0 {
		return errors.New("--unit requires --target")
	}

	s, err := ctx.OpenSession()
	if err != nil {
		return err
	}
	defer s.Close()

	state := s.Controller.State()
	var writeErr error
	if c.Target > 0 {
		_, writeErr = state.AddCounter(text, c.Target, c.Unit)
	} else {
		_, writeErr = state.Add(text)
	}

	quests := state.Snapshot()
	added := quests[len(quests)-1]
	fmt.Fprintf(ctx.Out, "✓ Added quest %s (id %s)\n", cli.FormatQuest(len(quests), added), added.ID)
	ctx.WarnWrite(writeErr)
	return nil
}
