package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/vacationbid/internal/cli"
	"github.com/julianstephens/vacationbid/internal/journal"
)

// HistoryCmd lists recent preference save attempts from the journal
type HistoryCmd struct {
	Limit int  `help:"Number of attempts to show." default:"20"`
	IDs   bool `help:"Show request ids." name:"show-ids"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	limit := c.Limit
	if limit <= 0 {
		limit = journal.DefaultHistoryLimit
	}

	store, err := ctx.Journal()
	if err != nil {
		return err
	}

	attempts, err := store.Recent(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	w := ctx.Stdout()
	if len(attempts) == 0 {
		fmt.Fprintln(w, "No save attempts recorded")
		return nil
	}

	fmt.Fprintf(w, "Save attempts (%s):\n", store.Location())
	for _, a := range attempts {
		fmt.Fprintf(w, "  %s  %-4s %-32s %-6s set %s  days %d weeks %d  %v\n",
			a.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			a.Method, a.Path, a.Outcome, a.SavedIDString(),
			a.DayCount, a.WeekCount, a.Duration)
		if c.IDs {
			fmt.Fprintf(w, "      request %s\n", a.RequestID)
		}
		if a.Error != "" {
			fmt.Fprintf(w, "      %s\n", a.Error)
		}
	}
	return nil
}
