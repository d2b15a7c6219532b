package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"blueberry/internal/admin"
	"blueberry/internal/migrate"
	"blueberry/internal/notsub"
	"blueberry/internal/storefront"
	xerrors "blueberry/internal/xpkg/errors"
	"blueberry/internal/xpkg/logger"
)

type service struct {
	name    string
	execute func(context.Context, logger.Logger, []string) error
}

var services = map[string]service{
	"storefront-service":      {"storefront-service", storefront.Execute},
	"sf":                      {"storefront-service", storefront.Execute},
	"admin-service":           {"admin-service", admin.Execute},
	"as":                      {"admin-service", admin.Execute},
	"notification-subscriber": {"notification-subscriber", notsub.Execute},
	"ns":                      {"notification-subscriber", notsub.Execute},
	"migrate":                 {"migrate", migrate.Execute},
	"mg":                      {"migrate", migrate.Execute},
}

func main() {
	mylogger, err := logger.New("DEBUG")
	if err != nil {
		log.Fatalf("log error: %v", err)
	}
	defer mylogger.Sync()

	mylogger.Action("blueberry_started").Info("Successfully started")
	// Global flags for selecting the service mode
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	mode := fs.String("mode", "", "process to run: storefront-service (sf) | admin-service (as) | notification-subscriber (ns) | migrate (mg)")

	// Only parse the args up to --mode, the rest go to the service
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			if !strings.Contains(arg, "=") && i+1 < len(args) {
				modeArgs = args[:i+2]
			}
			break
		}
	}
	if err := fs.Parse(modeArgs); err != nil {
		mylogger.Action("blueberry_failed").Error("Failed to parse flags", err)
		help(fs)
		return
	}

	if *mode == "" {
		mylogger.Action("blueberry_failed").Error("Failed to start blueberry", xerrors.ErrModeFlag)
		help(fs)
		return
	}

	svc, ok := services[*mode]
	if !ok {
		mylogger.Action("blueberry_failed").Error("Failed to start blueberry", xerrors.ErrUnknownService, "mode", *mode)
		help(fs)
		return
	}

	// Remaining args after --mode
	remainingArgs := args[len(modeArgs):]

	l := mylogger.With("service", svc.name)
	l.Action(svc.name + "_started").Info("Successfully started")
	if err := svc.execute(context.Background(), l, remainingArgs); err != nil {
		if errors.Is(err, xerrors.ErrHelp) {
			return
		}
		l.Action(svc.name+"_failed").Error("Error in "+svc.name, err)
		log.Fatalf("failed to execute %s: %s", svc.name, err)
	}
	l.Action(svc.name + "_completed").Info("Successfully completed")
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./blueberry --mode=storefront-service --port=3000 --config-path=config.yaml")
	fmt.Println("  ./blueberry --mode=migrate --down")
}
