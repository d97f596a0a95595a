package picks

import (
	"fmt"

	"github.com/julianstephens/vacationbid/internal/cli"
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/errors"
)

type QuotaCmd struct {
	Kind string `help:"Only show one kind of interval (day or week)."`
}

func (c *QuotaCmd) Run(ctx *cli.Context) error {
	if c.Kind != "" && c.Kind != string(constants.IntervalDay) && c.Kind != string(constants.IntervalWeek) {
		return fmt.Errorf("invalid --kind %q: expected day or week", c.Kind)
	}

	sess, err := ctx.Mount()
	if err != nil {
		return err
	}

	w := ctx.Stdout()
	if !sess.HasRound() {
		fmt.Fprintln(w, constants.MsgNoOpenRound)
		return nil
	}
	if sess.QuotaErr != nil {
		return sess.QuotaErr
	}
	if sess.Availability.IsEmpty() {
		fmt.Fprintln(w, constants.MsgNoAvailability)
		return nil
	}

	snap := sess.Controller.Store().Current()
	for _, kind := range []constants.IntervalType{constants.IntervalDay, constants.IntervalWeek} {
		if c.Kind != "" && c.Kind != string(kind) {
			continue
		}
		for _, iv := range sess.Availability.Of(kind) {
			mark := "[ ]"
			if rank := snap.Set.RankOf(kind, iv.StartDate); rank > 0 {
				mark = fmt.Sprintf("[%d]", rank)
			}
			fmt.Fprintf(w, "  %s %-5s %-20s quota %d\n", mark, kind, iv.Label(), iv.Quota)
		}
	}

	if snap.Err != "" {
		fmt.Fprintln(w, errors.Formatf("%s", snap.Err))
	}
	return nil
}
