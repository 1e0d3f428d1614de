package days

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dailyquest/internal/cli"
	"github.com/julianstephens/dailyquest/internal/constants"
)

const barWidth = 20

type HistoryCmd struct {
	Month string `help:"Month to show (YYYY-MM). Defaults to the current logical month."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	s, err := ctx.OpenSession()
	if err != nil {
		return err
	}
	defer s.Close()

	cal := s.Controller.Calendar()
	var year int
	var month time.Month
	if c.Month == "" {
		today, err := cal.ParseDay(s.Controller.Marker())
		if err != nil {
			return err
		}
		year, month = today.Year(), today.Month()
	} else {
		t, err := time.Parse(constants.MonthFormat, c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", c.Month)
		}
		year, month = t.Year(), t.Month()
	}

	days := s.Ledger.Month(year, month)
	fmt.Fprintf(ctx.Out, "%s\n\n", time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006"))

	var total float64
	var recorded int
	for _, d := range days {
		marker := " "
		if d.Today {
			marker = "›"
		}
		pct := "   -"
		if d.Recorded {
			pct = fmt.Sprintf("%3.0f%%", d.Percentage)
			total += d.Percentage
			recorded++
		}
		fmt.Fprintf(ctx.Out, "%s %s %s  %s %s\n", marker, d.Day, d.Date.Format("Mon"), pct, bar(d.Percentage))
	}

	if recorded > 0 {
		fmt.Fprintf(ctx.Out, "\n%d day(s) recorded, average %.0f%%\n", recorded, total/float64(recorded))
	} else {
		fmt.Fprintln(ctx.Out, "\nNo days recorded this month.")
	}
	return nil
}

func bar(pct float64) string {
	filled := int(pct / 100 * barWidth)
	filled = min(max(filled, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
