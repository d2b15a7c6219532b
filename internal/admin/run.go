package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"blueberry/internal/admin/api/http"
	"blueberry/internal/admin/app/core"
	"blueberry/internal/xpkg/config"
	xerrors "blueberry/internal/xpkg/errors"
	"blueberry/internal/xpkg/logger"
)

type params struct {
	adminParams *core.AdminParams
	configPath  string
	cfg         *config.Config
}

// Execute starts the admin service
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

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
		mylog = l.With("service", "admin-service")
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.adminParams, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("admin_service_failed").Error("Server failed unexpectedly", err)
			_ = server.Stop(context.Background())
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return server.Stop(context.Background())
	}
}

// parseParams parse params from terminal
func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("admin-service", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	port := fs.Int("port", 3001, "Port to run the admin service")

	if err := fs.Parse(args); err != nil {
		return nil, xerrors.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, xerrors.ErrHelp
	}

	return &params{
		adminParams: &core.AdminParams{Port: *port},
		configPath:  *configPath,
	}, nil
}

func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg

	if p := params.adminParams.Port; p <= 0 || p >= 65536 {
		return fmt.Errorf("%w: %d", xerrors.ErrInvalidPort, p)
	}
	return nil
}
