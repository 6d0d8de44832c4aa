package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mixinsafe/safeclient/api"
)

func accountFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		keystoreFlag(false),
		logLevelFlag(),
	}
}

// MeCommand creates the me command
func MeCommand() *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "Fetch the account of the keystore user",
		Flags: accountFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runAccountCommand(ctx, cmd, "Account fetched", (*api.Client).Me)
		},
	}
}

// VerifyTIPCommand creates the verify-tip command
func VerifyTIPCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify-tip",
		Usage: "Verify the spend key with a timestamped PIN proof",
		Flags: accountFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runAccountCommand(ctx, cmd, "TIP verified", (*api.Client).VerifyTIP)
		},
	}
}

// RegisterCommand creates the register command
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Register the spend public key with the sequencer",
		Flags: accountFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runAccountCommand(ctx, cmd, "Safe user registered", (*api.Client).RegisterSafeUser)
		},
	}
}

func runAccountCommand(ctx context.Context, cmd *cli.Command, summary string, call func(*api.Client, context.Context) (*api.User, error)) error {
	client, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	user, err := call(client, ctx)
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name, err)
	}

	if err := writeJSON(stdout(cmd), user); err != nil {
		return err
	}

	errOut := stderr(cmd)
	fmt.Fprintf(errOut, "\n=== SAFE CLIENT SUMMARY ===\n")
	fmt.Fprintf(errOut, "✓ %s\n", summary)
	fmt.Fprintf(errOut, "  user: %s\n", user.UserID)
	if user.HasSafe {
		fmt.Fprintf(errOut, "✓ Safe registered\n")
	} else {
		fmt.Fprintf(errOut, "⚠ Safe not registered\n")
	}
	return nil
}
