package picks

import (
	"errors"
	"fmt"

	"github.com/julianstephens/vacationbid/internal/cli"
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/models"
	"github.com/julianstephens/vacationbid/internal/session"
)

type PrefsCmd struct {
	Show   PrefsShowCmd   `cmd:"" help:"Show the saved preference set." default:"1"`
	Add    PrefsAddCmd    `cmd:"" help:"Add an interval as the lowest-ranked preference."`
	Remove PrefsRemoveCmd `cmd:"" help:"Remove an interval and close the rank gap."`
}

// IntervalFlags selects exactly one interval by its start date
type IntervalFlags struct {
	Day  string `help:"Start date of a single day." xor:"interval" required:""`
	Week string `help:"Start date of a week." xor:"interval" required:""`
}

func (f IntervalFlags) selection() (constants.IntervalType, models.Date, error) {
	switch {
	case f.Day != "" && f.Week != "":
		return "", "", errors.New("pass either --day or --week, not both")
	case f.Day != "":
		return constants.IntervalDay, models.Date(f.Day), nil
	case f.Week != "":
		return constants.IntervalWeek, models.Date(f.Week), nil
	}
	return "", "", errors.New("pass --day or --week")
}

type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(ctx *cli.Context) error {
	sess, err := mountRound(ctx)
	if err != nil || sess == nil {
		return err
	}
	if sess.PrefErr != nil {
		return sess.PrefErr
	}
	cli.PrintPreferences(ctx.Stdout(), sess.Controller.Store().Current().Set)
	return nil
}

type PrefsAddCmd struct {
	IntervalFlags
}

func (c *PrefsAddCmd) Run(ctx *cli.Context) error {
	return toggle(ctx, c.IntervalFlags, true)
}

type PrefsRemoveCmd struct {
	IntervalFlags
}

func (c *PrefsRemoveCmd) Run(ctx *cli.Context) error {
	return toggle(ctx, c.IntervalFlags, false)
}

// mountRound mounts a session and reports when no round is open; a nil
// session with a nil error means there is nothing to do.
func mountRound(ctx *cli.Context) (*session.Session, error) {
	sess, err := ctx.Mount()
	if err != nil {
		return nil, err
	}
	if !sess.HasRound() {
		fmt.Fprintln(ctx.Stdout(), constants.MsgNoOpenRound)
		return nil, nil
	}
	return sess, nil
}

func toggle(ctx *cli.Context, flags IntervalFlags, checked bool) error {
	kind, start, err := flags.selection()
	if err != nil {
		return err
	}

	sess, err := mountRound(ctx)
	if err != nil || sess == nil {
		return err
	}
	if sess.PrefErr != nil {
		return sess.PrefErr
	}

	interval, found := findInterval(sess.Availability, kind, start)
	if checked && !found {
		return fmt.Errorf("no available %s starting %s", kind, start)
	}

	reqCtx, cancel := ctx.WithTimeout()
	defer cancel()
	if err := sess.Controller.Toggle(reqCtx, interval, checked); err != nil {
		return err
	}

	cli.PrintPreferences(ctx.Stdout(), sess.Controller.Store().Current().Set)
	return nil
}

// findInterval looks the date up in availability. Removal does not need
// the interval to still be open, so a bare interval is returned otherwise.
func findInterval(avail models.Availability, kind constants.IntervalType, start models.Date) (models.Interval, bool) {
	for _, iv := range avail.Of(kind) {
		if iv.StartDate == start {
			return iv, true
		}
	}
	return models.Interval{Kind: kind, StartDate: start}, false
}
