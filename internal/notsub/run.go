package notsub

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"blueberry/internal/notsub/adapter/consumer"
	"blueberry/internal/xpkg/config"
	xerrors "blueberry/internal/xpkg/errors"
	"blueberry/internal/xpkg/logger"
)

type params struct {
	configPath string
	cfg        *config.Config
}

// Execute starts the notification subscriber
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_parse_completed").Debug("Received params", "config_path", params.configPath)

	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	if l, err := logger.New(params.cfg.Log.Level); err == nil {
		mylog = l.With("service", "notification-subscriber")
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	notsub := consumer.NewNotification(newCtx, context.Background(), params.cfg, mylog)

	if err := notsub.Run(); err != nil {
		mylog.Action("notsub_run_failed").Error("Notification subscriber stopped with error", err)
		_ = notsub.Stop(context.Background())
		return err
	}
	<-newCtx.Done()
	return notsub.Stop(context.Background())
}

// parseParams parse params from terminal
func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("notification-subscriber", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	if err := fs.Parse(args); err != nil {
		return nil, xerrors.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, xerrors.ErrHelp
	}

	return &params{configPath: *configPath}, nil
}

func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg
	return nil
}
