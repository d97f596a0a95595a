package picks

import (
	"fmt"

	"github.com/julianstephens/vacationbid/internal/cli"
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/errors"
)

type RoundCmd struct{}

func (c *RoundCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.WithTimeout()
	defer cancel()

	round, err := ctx.Backend.FetchPickOverview(reqCtx)
	if err != nil {
		return errors.NewUserError(constants.MsgFetchError, err)
	}

	w := ctx.Stdout()
	if round == nil {
		fmt.Fprintln(w, constants.MsgNoOpenRound)
		return nil
	}

	fmt.Fprintf(w, "Round %s (process %s)\n", round.RoundID, round.ProcessID)
	if round.EmployeeID != "" {
		fmt.Fprintf(w, "  Badge:          %s\n", round.EmployeeID)
	}
	fmt.Fprintf(w, "  Rank in group:  %d\n", round.Rank)
	if round.CutoffTime != "" {
		fmt.Fprintf(w, "  Cutoff:         %s\n", round.CutoffTime)
	}
	if round.IntervalType != "" {
		fmt.Fprintf(w, "  Picking:        %ss\n", round.IntervalType)
	}
	if round.AmountToForce != nil {
		fmt.Fprintf(w, "  Amount to force: %d\n", *round.AmountToForce)
	}
	fmt.Fprintln(w, round.ForcingSentence())
	return nil
}
