package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/vacationbid/internal/api"
	"github.com/julianstephens/vacationbid/internal/cli"
	"github.com/julianstephens/vacationbid/internal/cli/picks"
	"github.com/julianstephens/vacationbid/internal/cli/system"
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/errors"
	"github.com/julianstephens/vacationbid/internal/keyring"
	"github.com/julianstephens/vacationbid/internal/logger"
)

var CLI struct {
	Version       kong.VersionFlag
	BaseURL       string        `name:"base-url" help:"Vacation backend base URL." env:"VACATIONBID_BASE_URL" default:"${default_base_url}"`
	CSRFToken     string        `name:"csrf-token" help:"Security token sent with writes. Falls back to the OS keyring." env:"VACATIONBID_CSRF_TOKEN"`
	SessionCookie string        `help:"Session cookie (name=value). Falls back to the OS keyring." env:"VACATIONBID_SESSION_COOKIE"`
	Timeout       time.Duration `help:"Timeout for each backend request." default:"${default_timeout}"`
	ConfigDir     string        `help:"Directory holding .env, logs and the journal." type:"path" default:"${default_config_dir}"`
	Journal       string        `help:"Save journal: a sqlite file path or a postgres:// URL without a password. Defaults to <config-dir>/journal.db."`
	Debug         bool          `help:"Also log to stderr at debug level."`

	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive pick screen." default:"1"`
	Round   picks.RoundCmd    `cmd:"" help:"Show the open vacation round."`
	Quota   picks.QuotaCmd    `cmd:"" help:"List available vacation intervals."`
	Prefs   picks.PrefsCmd    `cmd:"" help:"Show or change ranked preferences."`
	History system.HistoryCmd `cmd:"" help:"List recent preference save attempts."`
	Token   system.TokenCmd   `cmd:"" help:"Manage credentials in the OS keyring."`
}

func main() {
	// .env must be loaded before kong resolves env-backed flags
	if err := cli.LoadEnvFile(cli.ConfigDirFromArgs(os.Args[1:])); err != nil {
		errors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Rank and submit vacation preferences for the open bidding round"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":            constants.Version,
			"default_base_url":   constants.DefaultBaseURL,
			"default_timeout":    constants.DefaultTimeout.String(),
			"default_config_dir": constants.DefaultConfigDir,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: CLI.ConfigDir}); err != nil {
		errors.Fatal(err)
	}

	creds, err := keyring.Fill(keyring.Credentials{
		CSRFToken:     CLI.CSRFToken,
		SessionCookie: CLI.SessionCookie,
	})
	if err != nil {
		logger.Warn("Keyring lookup failed", "error", err)
	}

	client, err := api.NewClient(api.Config{
		BaseURL:       CLI.BaseURL,
		CSRFToken:     creds.CSRFToken,
		SessionCookie: creds.SessionCookie,
		Timeout:       CLI.Timeout,
	})
	if err != nil {
		errors.Fatal(err)
	}

	journalTarget := CLI.Journal
	if journalTarget == "" {
		journalTarget = filepath.Join(CLI.ConfigDir, filepath.Base(constants.DefaultJournal))
	}

	appCtx := &cli.Context{
		Backend:       client,
		JournalTarget: cli.ExpandPath(journalTarget),
		Timeout:       CLI.Timeout,
	}

	err = ctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close journal", "error", cerr)
	}
	if err != nil {
		errors.Fatal(err)
	}
}
