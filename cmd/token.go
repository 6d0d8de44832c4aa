package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mixinsafe/safeclient/auth"
)

// TokenCommand creates the token commands
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Sign and inspect bearer tokens",
		Commands: []*cli.Command{
			tokenSignCommand(),
			tokenInspectCommand(),
		},
	}
}

func tokenSignCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Sign a bearer token for one request",
		Flags: []cli.Flag{
			keystoreFlag(true),
			&cli.StringFlag{
				Name:  "method",
				Usage: "HTTP method",
				Value: "GET",
			},
			&cli.StringFlag{
				Name:     "path",
				Usage:    "Request path including the query string",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "body",
				Usage: "Exact request body",
			},
			&cli.StringFlag{
				Name:  "request-id",
				Usage: "Request id to embed as jti (random when empty)",
			},
		},
		Action: runTokenSignCommand,
	}
}

func runTokenSignCommand(ctx context.Context, cmd *cli.Command) error {
	user, err := loadSafeUser(cmd)
	if err != nil {
		return err
	}

	method := strings.ToUpper(cmd.String("method"))
	token, err := auth.SignAuthenticationTokenWithRequestID(method, cmd.String("path"), []byte(cmd.String("body")), cmd.String("request-id"), user)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	_, err = fmt.Fprintln(stdout(cmd), token)
	return err
}

func tokenInspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Decode the header and claims of a token without verifying it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "token",
				Usage:    "Bearer token (with or without the Bearer prefix)",
				Required: true,
			},
		},
		Action: runTokenInspectCommand,
	}
}

func runTokenInspectCommand(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimSpace(strings.TrimPrefix(cmd.String("token"), "Bearer "))
	header, claims, err := auth.DecodeToken(token)
	if err != nil {
		return fmt.Errorf("failed to decode token: %w", err)
	}

	return writeJSON(stdout(cmd), struct {
		Header map[string]interface{} `json:"header"`
		Claims *auth.Claims            `json:"claims"`
	}{header, claims})
}
