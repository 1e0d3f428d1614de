package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailyquest/internal/cli"
	"github.com/julianstephens/dailyquest/internal/models"
	"github.com/julianstephens/dailyquest/internal/progress"
	"github.com/julianstephens/dailyquest/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	var p *tea.Program
	pending := 0
	celebrate := progress.CelebratorFunc(func(q models.Collection) {
		if p == nil {
			// Opening on a complete list; the model replays it from Init.
			pending = len(q)
			return
		}
		// Observers run inside Update; Send from there would block the loop.
		go p.Send(tui.CelebrateMsg{Count: len(q)})
	})

	s, err := ctx.OpenSession(cli.CelebrateOnOpen(), cli.WithCelebrator(celebrate))
	if err != nil {
		return err
	}
	defer s.Close()

	model := tui.NewModel(s.Controller, s.Ledger, ctx.Config.Interval()).WithStartCelebration(pending)
	p = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
