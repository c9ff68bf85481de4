package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cascade/config"
	"cascade/css"
	"cascade/misc"
	"cascade/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - cli.Exit() looks non-transparent
// and unnecessary. Subcommands return regular errors.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt - watch mode runs until signalled
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "stylesheet engine for a CSS subset - parse, validate and cascade",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "check",
				Usage:        "Parses stylesheet file(s) and reports problems",
				OnUsageError: usageErrorHandler,
				Action:       checkStylesheets,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "fail-fast", Aliases: []string{"ff"}, Usage: "stop on first stylesheet that fails to parse"},
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "keep running, re-checking the stylesheet when it changes on disk"},
				},
				ArgsUsage: "FILE...",
				CustomHelpTemplate: fmt.Sprintf(`%s
FILE:
    path to stylesheet file(s) to check

Malformed declarations and selectors are skipped with a warning the same way
they would be during conversion, so a clean check means the whole file will
take effect. Watch mode accepts a single file and polls it for changes until
interrupted.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "fmt",
				Usage:        "Parses stylesheet file(s) and prints them in normalized form",
				OnUsageError: usageErrorHandler,
				Action:       formatStylesheets,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "write result back to source file instead of STDOUT"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write result to `DIR` keeping source file names"},
				},
				ArgsUsage: "FILE...",
				CustomHelpTemplate: fmt.Sprintf(`%s
FILE:
    path to stylesheet file(s) to format

Output keeps only rules the engine understands, one rule per line, sorted by
ascending selector specificity. Declarations that failed to parse are dropped.
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func checkStylesheets(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() == 0 {
		return errors.New("no stylesheets to check")
	}

	env.FailFast = cmd.Bool("fail-fast") || env.Cfg.Check.FailFast
	env.Watch = cmd.Bool("watch")

	if env.Watch {
		if cmd.Args().Len() != 1 {
			return errors.New("watch mode checks a single stylesheet")
		}
		return watchStylesheet(ctx, env, cmd.Args().Get(0))
	}

	var total error
	for _, fname := range cmd.Args().Slice() {
		sheet, err := parseStylesheet(env, fname)
		if err != nil {
			total = multierr.Append(total, err)
			if env.FailFast {
				return total
			}
			continue
		}
		env.Log.Info("Stylesheet is valid", zap.String("file", fname), zap.Int("rules", len(sheet.Rules)))
	}
	return total
}

func watchStylesheet(ctx context.Context, env *state.LocalEnv, fname string) error {

	ldr := css.NewLoader(fname, env.Log)
	if err := ldr.Load(); err != nil {
		return err
	}
	env.Log.Info("Watching stylesheet", zap.String("file", fname), zap.Int("rules", len(ldr.Current().Rules)))

	tick := time.NewTicker(time.Duration(env.Cfg.Check.PollSeconds) * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			env.Log.Info("Watch interrupted", zap.String("file", fname))
			return nil
		case <-tick.C:
			changed, err := ldr.Reload()
			if err != nil {
				env.Log.Error("Stylesheet reload failed", zap.String("file", fname), zap.Error(err))
				continue
			}
			if changed {
				env.Log.Info("Stylesheet reloaded", zap.String("file", fname), zap.Int("rules", len(ldr.Current().Rules)))
			}
		}
	}
}

func formatStylesheets(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() == 0 {
		return errors.New("no stylesheets to format")
	}

	env.Overwrite = cmd.Bool("write") || env.Cfg.Format.Overwrite
	outDir := cmd.String("output")
	if env.Overwrite && len(outDir) > 0 {
		return errors.New("--write and --output are mutually exclusive")
	}

	for _, fname := range cmd.Args().Slice() {
		sheet, err := parseStylesheet(env, fname)
		if err != nil {
			return err
		}

		switch {
		case env.Overwrite:
			if err := os.WriteFile(fname, []byte(sheet.String()), 0644); err != nil {
				return fmt.Errorf("unable to rewrite '%s': %w", fname, err)
			}
			env.Log.Info("Stylesheet formatted", zap.String("file", fname), zap.Int("rules", len(sheet.Rules)))
		case len(outDir) > 0:
			dst := filepath.Join(outDir, config.CleanFileName(filepath.Base(fname)))
			if err := os.WriteFile(dst, []byte(sheet.String()), 0644); err != nil {
				return fmt.Errorf("unable to write '%s': %w", dst, err)
			}
			env.Log.Info("Stylesheet formatted", zap.String("file", fname), zap.String("destination", dst))
		default:
			if _, err := sheet.WriteTo(os.Stdout); err != nil {
				return fmt.Errorf("unable to write to STDOUT: %w", err)
			}
		}
	}
	return nil
}

// parseStylesheet reads and parses a single stylesheet, storing the source in
// the debug report when one was requested.
func parseStylesheet(env *state.LocalEnv, fname string) (*css.Stylesheet, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to read '%s': %w", fname, err)
	}
	env.Rpt.StoreData(fmt.Sprintf("input/%s", filepath.Base(fname)), data)

	sheet, err := css.NewParser(env.Log).Parse(data, fname)
	if err != nil {
		env.Log.Error("Stylesheet failed to parse", zap.String("file", fname), zap.Error(err))
		return nil, fmt.Errorf("'%s': %w", fname, err)
	}
	return sheet, nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputting configuration", zap.String("state", state), zap.String("file", fname))

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
