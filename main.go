package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mixinsafe/safeclient/cmd"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "safe-client",
		Usage: "Safe network signing client",
		// TIP fields are hashed undelimited, so commas must reach them intact.
		DisableSliceFlagSeparator: true,
		Commands: []*cli.Command{
			cmd.TokenCommand(),
			cmd.TIPCommand(),
			cmd.PINCommand(),
			cmd.MeCommand(),
			cmd.VerifyTIPCommand(),
			cmd.RegisterCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
