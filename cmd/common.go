package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mixinsafe/safeclient/api"
	"github.com/mixinsafe/safeclient/config"
	"github.com/mixinsafe/safeclient/keys"
	"github.com/mixinsafe/safeclient/logging"
	"github.com/mixinsafe/safeclient/safe"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the TOML client configuration",
	}
}

func keystoreFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "keystore",
		Usage:    "Path to the safe user keystore JSON",
		Required: required,
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
	}
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// loadConfig reads --config when given and falls back to the defaults
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// keyProvider picks the keystore from --keystore, then the config, then
// the TEST_KEYSTORE_PATH environment variable
func keyProvider(cmd *cli.Command, cfg *config.Config) api.KeyProvider {
	if path := cmd.String("keystore"); path != "" {
		return &keys.FileKeyProvider{Path: path}
	}
	if cfg != nil && cfg.KeystorePath != "" {
		return &keys.FileKeyProvider{Path: cfg.KeystorePath}
	}
	return &keys.EnvKeyProvider{}
}

func newLogger(cmd *cli.Command, cfg *config.Config) (*slog.Logger, error) {
	level := cmd.String("log-level")
	if level == "" {
		level = cfg.Logging.Level
	}
	return logging.New(stderr(cmd), level)
}

func newAPIClient(cmd *cli.Command) (*api.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cfg, nil, keyProvider(cmd, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	client.Logger = logger
	return client, nil
}

func loadSafeUser(cmd *cli.Command) (*safe.SafeUser, error) {
	user, err := keys.LoadSafeUserFromFile(cmd.String("keystore"))
	if err != nil {
		return nil, fmt.Errorf("failed to load safe user: %w", err)
	}
	return user, nil
}

func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
