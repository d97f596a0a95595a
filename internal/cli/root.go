package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/journal"
	"github.com/julianstephens/vacationbid/internal/logger"
	"github.com/julianstephens/vacationbid/internal/models"
	"github.com/julianstephens/vacationbid/internal/preferences"
	"github.com/julianstephens/vacationbid/internal/session"
)

// Context is what every command receives from kong
type Context struct {
	Backend       session.Backend
	JournalTarget string // sqlite path or postgres:// URL; empty disables journaling
	Timeout       time.Duration
	Out           io.Writer

	journal journal.Store
}

// Stdout is where command output goes
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// WithTimeout bounds one command's backend calls
func (c *Context) WithTimeout() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

// Journal opens the save journal on first use
func (c *Context) Journal() (journal.Store, error) {
	if c.journal != nil {
		return c.journal, nil
	}
	if c.JournalTarget == "" {
		return nil, errors.New("no journal configured")
	}
	store, err := journal.Open(c.JournalTarget)
	if err != nil {
		return nil, err
	}
	c.journal = store
	return store, nil
}

// Close releases the journal if it was opened
func (c *Context) Close() error {
	if c.journal == nil {
		return nil
	}
	err := c.journal.Close()
	c.journal = nil
	return err
}

// Saver returns the backend saver, journaled when a journal is available.
// A journal that cannot be opened is logged and skipped; saving still works.
func (c *Context) Saver() preferences.Saver {
	base, ok := c.Backend.(preferences.Saver)
	if !ok {
		return nil
	}
	if c.JournalTarget == "" {
		return base
	}
	store, err := c.Journal()
	if err != nil {
		logger.Warn("Save journal unavailable, saving without it", "error", err)
		return base
	}
	return journal.NewRecorder(base, store)
}

// Deps wires a session for the TUI and the prefs commands
func (c *Context) Deps() session.Deps {
	return session.Deps{Backend: c.Backend, Saver: c.Saver()}
}

// Mount loads the round, availability and latest preferences
func (c *Context) Mount() (*session.Session, error) {
	ctx, cancel := c.WithTimeout()
	defer cancel()
	return session.Mount(ctx, c.Deps())
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ConfigDirFromArgs finds --config-dir before kong has parsed anything, so
// the .env file it holds can feed kong's env-backed flags.
func ConfigDirFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config-dir" && i+1 < len(args):
			return ExpandPath(args[i+1])
		case strings.HasPrefix(arg, "--config-dir="):
			return ExpandPath(strings.TrimPrefix(arg, "--config-dir="))
		}
	}
	return ExpandPath(constants.DefaultConfigDir)
}

// LoadEnvFile loads <dir>/.env without overriding variables already set.
// A missing file is not an error.
func LoadEnvFile(dir string) error {
	path := filepath.Join(dir, constants.EnvFileName)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// PrintPreferences writes the ranked set the way the prefs commands show it
func PrintPreferences(w io.Writer, set models.PreferenceSet) {
	if set.Len() == 0 {
		fmt.Fprintln(w, constants.MsgNoPreferences)
		return
	}

	fmt.Fprintf(w, "Preference set %s:\n", set.IDString())
	for _, kind := range []constants.IntervalType{constants.IntervalDay, constants.IntervalWeek} {
		for _, p := range set.Of(kind) {
			label := models.Interval{Kind: p.Kind, StartDate: p.StartDate}.Label()
			fmt.Fprintf(w, "  %-5s #%d  %s\n", p.Kind, p.Rank, label)
		}
	}
}
