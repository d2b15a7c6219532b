package migrate

import (
	"context"
	"flag"

	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/db"
	xerrors "blueberry/internal/xpkg/errors"
	"blueberry/internal/xpkg/logger"
)

type params struct {
	configPath string
	down       bool
	cfg        *config.Config
}

// Execute applies the embedded schema, or rolls it back with --down.
func Execute(_ context.Context, mylog logger.Logger, args []string) error {
	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	if l, err := logger.New(params.cfg.Log.Level); err == nil {
		mylog = l.With("service", "migrate")
	}

	if err := db.Migrate(params.cfg.DB, params.down, mylog); err != nil {
		mylog.Action("migration_failed").Error("Failed to migrate schema", err, "down", params.down)
		return err
	}
	mylog.Action("migration_completed").Info("Schema is up to date", "down", params.down)
	return nil
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	down := fs.Bool("down", false, "roll every migration back")

	if err := fs.Parse(args); err != nil {
		return nil, xerrors.ErrParseCmd
	}
	if *showHelp {
		fs.Usage()
		return nil, xerrors.ErrHelp
	}
	return &params{configPath: *configPath, down: *down}, nil
}

func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg
	return nil
}
