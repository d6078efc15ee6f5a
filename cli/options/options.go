/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"fmt"

	"github.com/urfave/cli"
	"github.com/weftlabs/weft-go/pkg/config"
	"github.com/weftlabs/weft-go/pkg/core/stash"
	"github.com/weftlabs/weft-go/pkg/core/storage"
	"github.com/weftlabs/weft-go/pkg/io"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultConfigPath is the config file used when the --config-file option is
// not given.
const DefaultConfigPath = "./config/stash.yml"

// ConfigFile is a flag for commands that use the stash configuration.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the stash configuration file",
}

// Debug is a flag for commands that allow debug mode usage.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// GetConfigFromContext looks at the config-file flag in the given context and
// returns an appropriate config.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	configFile := ctx.String("config-file")
	if len(configFile) == 0 {
		configFile = DefaultConfigPath
	}
	return config.LoadFile(configFile)
}

// HandleLoggingParams reads logging parameters.
// If the user selected debug level, the function enables it.
// If logPath is configured, the function creates a dir and a file for logging.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if len(cfg.LogLevel) > 0 {
		var err error
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	return cc.Build()
}

// GetStore opens the storage backend configured in the given context together
// with a logger built from the same config.
func GetStore(ctx *cli.Context) (storage.Store, *zap.Logger, cli.ExitCoder) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return nil, nil, cli.NewExitError(err, 1)
	}
	log, err := HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return nil, nil, cli.NewExitError(err, 1)
	}
	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		return nil, nil, cli.NewExitError(fmt.Errorf("could not initialize stash storage: %w", err), 1)
	}
	return store, log, nil
}

// GetStash opens the stash database on top of the configured storage backend.
func GetStash(ctx *cli.Context) (*stash.Stash, *zap.Logger, cli.ExitCoder) {
	store, log, exitErr := GetStore(ctx)
	if exitErr != nil {
		return nil, nil, exitErr
	}
	st, err := stash.NewStash(store, log)
	if err != nil {
		_ = store.Close()
		return nil, nil, cli.NewExitError(err, 1)
	}
	return st, log, nil
}
