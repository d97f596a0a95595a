package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/vacationbid/internal/cli"
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/keyring"
)

type TokenCmd struct {
	Set    TokenSetCmd    `cmd:"" help:"Store a credential in the OS keyring."`
	Get    TokenGetCmd    `cmd:"" help:"Show a stored credential (masked)."`
	Delete TokenDeleteCmd `cmd:"" help:"Remove a credential from the OS keyring."`
	Status TokenStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
}

// TokenSetCmd stores the CSRF token or session cookie
type TokenSetCmd struct {
	Name  string `arg:"" enum:"csrf-token,session-cookie" help:"Credential to store (csrf-token or session-cookie)."`
	Value string `arg:"" optional:"" help:"Value to store; prompted for when omitted."`
}

func (cmd *TokenSetCmd) Run(ctx *cli.Context) error {
	value := cmd.Value
	if value == "" {
		err := huh.NewInput().
			Title("Enter " + cmd.Name).
			EchoMode(huh.EchoModePassword).
			Value(&value).
			Run()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", cmd.Name, err)
		}
	}

	value = strings.TrimSpace(value)
	if err := keyring.Set(cmd.Name, value); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout(), "✓ %s stored in OS keyring\n", cmd.Name)
	return nil
}

type TokenGetCmd struct {
	Name string `arg:"" enum:"csrf-token,session-cookie" help:"Credential to show."`
}

func (cmd *TokenGetCmd) Run(ctx *cli.Context) error {
	value, err := keyring.Get(cmd.Name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'vacationbid token set %s' to store one", cmd.Name, cmd.Name)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", cmd.Name, err)
	}

	fmt.Fprintf(ctx.Stdout(), "%s: %s\n", cmd.Name, mask(value))
	return nil
}

type TokenDeleteCmd struct {
	Name string `arg:"" enum:"csrf-token,session-cookie" help:"Credential to delete."`
}

func (cmd *TokenDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.Delete(cmd.Name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", cmd.Name)
		}
		return err
	}

	fmt.Fprintf(ctx.Stdout(), "✓ %s deleted from OS keyring\n", cmd.Name)
	return nil
}

type TokenStatusCmd struct{}

func (cmd *TokenStatusCmd) Run(ctx *cli.Context) error {
	w := ctx.Stdout()
	if !keyring.IsAvailable() {
		fmt.Fprintln(w, "❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}

	fmt.Fprintln(w, "✓ OS keyring is available")
	for _, name := range []string{constants.KeyringCSRFUser, constants.KeyringCookieUser} {
		if _, err := keyring.Get(name); err == nil {
			fmt.Fprintf(w, "✓ %s is stored\n", name)
		} else if errors.Is(err, keyring.ErrNotFound) {
			fmt.Fprintf(w, "ℹ no %s stored\n", name)
		}
	}
	return nil
}

// mask keeps the first four characters so values can be told apart
func mask(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + "****"
}
