// Program Viewer loads the hot items and the desktop items of a launcher directory together with their cached icons.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/PandrPi/ProgramViewer3.0/config"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/items"
	"github.com/PandrPi/ProgramViewer3.0/launcher"
)

const envVarPrefix = "PV"

// flagEnvVars maps each command line flag to the environment variable overriding it.
var flagEnvVars = map[string]string{
	"app-dir":      "PV_APP_DIR",
	"watch":        "PV_WATCH",
	"flush-period": "PV_FLUSH_PERIOD",
	"log-file":     "PV_LOGGING_FILE",
	"log-backend":  "PV_LOGGING_BACKEND",
	"log-rotate":   "PV_LOGGING_ROTATE",
	"verbose":      "PV_LOGGING_VERBOSE",
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfiguration builds the launcher configuration from the defaults, the environment and `args`, in increasing order of precedence.
// A nil configuration and no error are returned when help was requested.
func loadConfiguration(args []string) (cfg *launcher.Configuration, err error) {
	defaults := launcher.DefaultConfiguration(".")
	flags := pflag.NewFlagSet("programviewer", pflag.ContinueOnError)
	flags.String("app-dir", defaults.ApplicationDirectory, "directory holding the icon cache, the desktop folder and the settings")
	flags.Bool("watch", defaults.Watch, "keep monitoring the desktop folder until interrupted")
	flags.Duration("flush-period", defaults.FlushPeriod, "interval between two background flushes of the icon cache (0 disables them)")
	flags.String("log-file", defaults.Logging.LogFile, "file receiving the messages when they are redirected")
	flags.String("log-backend", defaults.Logging.Backend, "console logging backend (zap, logrus, hclog, json, std or none)")
	flags.Bool("log-rotate", defaults.Logging.Rotate, "rotate the log file once it grows too large")
	flags.Bool("verbose", defaults.Logging.Verbose, "print debug messages")
	err = flags.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	session := viper.New()
	for flag, envVar := range flagEnvVars {
		err = config.BindFlagToEnv(session, envVarPrefix, envVar, flags.Lookup(flag))
		if err != nil {
			return
		}
	}
	loaded := &launcher.Configuration{}
	err = config.LoadFromViper(session, envVarPrefix, loaded, defaults)
	if err != nil {
		return
	}
	loaded.ApplicationDirectory, err = filesystem.ExpandPath(loaded.ApplicationDirectory)
	if err != nil {
		return
	}
	cfg = loaded
	return
}

func run(args []string) (err error) {
	cfg, err := loadConfiguration(args)
	if err != nil || cfg == nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := launcher.New(ctx, cfg)
	if err != nil {
		return
	}
	defer func() {
		if closeErr := l.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	err = l.Start(ctx)
	if err != nil {
		return
	}

	printItems(l, "Hot items", l.Items().HotItems())
	printItems(l, "Desktop items", l.Items().DesktopItems())
	if !cfg.Watch {
		return
	}
	fmt.Println("Watching the desktop folder. Press Ctrl+C to exit.")
	<-ctx.Done()
	return
}

func printItems(l *launcher.Launcher, header string, list []items.ItemData) {
	fmt.Printf("%v (%d)\n", header, len(list))
	for i := range list {
		hash, _ := l.Cache().HashOf(list[i].Path)
		fmt.Printf("  %-7v %-32v %v  %v\n", list[i].PathType, list[i].Title, hash, list[i].Path)
	}
}
