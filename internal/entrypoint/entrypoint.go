package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"confluence2rst/internal/app"
	"confluence2rst/internal/cli"
	"confluence2rst/internal/config"
	"confluence2rst/internal/failure"
	"confluence2rst/internal/logger"
	"confluence2rst/internal/tui"
)

var runApp = app.Run

// Execute runs the tool for the given os.Args and returns the process exit
// code. Network calls carry their own timeouts; the run context is only
// cancelled by SIGINT/SIGTERM. An unexpected failure is logged and ends the
// run without a non-zero code; only fetch, config and usage errors have one.
func Execute(args []string) (code int, err error) {
	if err := config.LoadDotEnv(config.DefaultDotEnv); err != nil {
		return 1, err
	}

	log := logger.New(logger.Config{Level: "info"})
	defer func() {
		if r := recover(); r != nil {
			log.Error("unexpected failure", logger.String("panic", fmt.Sprint(r)))
			code, err = 0, fmt.Errorf("unexpected failure: %v", r)
		}
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) <= 1 {
		res, err := tui.Run()
		if err != nil {
			return 1, err
		}
		if !res.RunNow {
			fmt.Printf("Saved %s\n", res.ConfigPath)
			return 0, nil
		}
		return run(ctx, res.Options, log)
	}

	inv, err := cli.ParseArgs(args[1:])
	if err != nil {
		var exitErr cli.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code, exitErr.Err
		}
		return 1, err
	}

	if inv.InitConfig {
		if err := cli.RunConfigWizard(inv.ConfigPath); err != nil {
			return 1, err
		}
		return 0, nil
	}

	log = logger.New(logger.Config{Level: inv.LogLevel})
	return run(ctx, inv.Options, log)
}

// run maps a pipeline outcome to an exit code. A failed file write has been
// reported already and does not fail the process.
func run(ctx context.Context, opts app.Options, log logger.Logger) (int, error) {
	_, err := runApp(ctx, opts, log)
	switch {
	case err == nil:
		return 0, nil
	case failure.Is(err, failure.KindFetch):
		log.Error("could not fetch page", logger.String("page_id", opts.PageID), logger.Error(err))
	case failure.Is(err, failure.KindConfig):
		log.Error("invalid configuration", logger.Error(err))
	default:
		log.Error("conversion failed", logger.Error(err))
	}
	return 1, err
}
