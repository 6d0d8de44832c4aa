package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mixinsafe/safeclient/pin"
	"github.com/mixinsafe/safeclient/tip"
)

// TIPCommand creates the tip commands
func TIPCommand() *cli.Command {
	return &cli.Command{
		Name:  "tip",
		Usage: "Build TIP bodies",
		Commands: []*cli.Command{
			tipBodyCommand(),
		},
	}
}

// PINCommand creates the pin commands
func PINCommand() *cli.Command {
	return &cli.Command{
		Name:  "pin",
		Usage: "Build PIN proofs",
		Commands: []*cli.Command{
			pinEncryptCommand(),
		},
	}
}

func tagFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "tag",
			Usage:    "TIP action tag, e.g. TIP:VERIFY:",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "field",
			Usage: "Body field, in order (repeatable)",
		},
	}
}

func tipBodyCommand() *cli.Command {
	return &cli.Command{
		Name:   "body",
		Usage:  "Print the hex SHA-256 body for a tag and fields",
		Flags:  tagFlags(),
		Action: runTIPBodyCommand,
	}
}

func runTIPBodyCommand(ctx context.Context, cmd *cli.Command) error {
	body, err := tipBody(cmd)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout(cmd), hex.EncodeToString(body))
	return err
}

func pinEncryptCommand() *cli.Command {
	flags := append(tagFlags(),
		keystoreFlag(true),
		&cli.Uint64Flag{
			Name:  "iterator",
			Usage: "PIN iterator (defaults to the current time in nanoseconds)",
		},
	)
	return &cli.Command{
		Name:   "encrypt",
		Usage:  "Sign a TIP body with the spend key and encrypt it as pin_base64",
		Flags:  flags,
		Action: runPINEncryptCommand,
	}
}

func runPINEncryptCommand(ctx context.Context, cmd *cli.Command) error {
	user, err := loadSafeUser(cmd)
	if err != nil {
		return err
	}
	body, err := tipBody(cmd)
	if err != nil {
		return err
	}

	iterator := cmd.Uint64("iterator")
	if iterator == 0 {
		iterator = uint64(time.Now().UnixNano())
	}

	signature, err := tip.Sign(body, user.SpendPrivateKey, user.IsSpendPrivateSum)
	if err != nil {
		return fmt.Errorf("failed to sign tip body: %w", err)
	}
	pinBase64, err := pin.Encrypt(signature, iterator, user)
	if err != nil {
		return fmt.Errorf("failed to encrypt pin: %w", err)
	}

	_, err = fmt.Fprintln(stdout(cmd), pinBase64)
	return err
}

func tipBody(cmd *cli.Command) ([]byte, error) {
	tag := cmd.String("tag")
	if !tip.IsKnownTag(tag) {
		return nil, fmt.Errorf("unknown tag %q", tag)
	}
	return tip.Body(tag, cmd.StringSlice("field")...), nil
}
