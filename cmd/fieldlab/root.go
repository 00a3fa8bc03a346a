package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-fieldlab/internal/config"
	"github.com/cwbudde/algo-fieldlab/internal/logging"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgPath  string
	logLevel string
	noColor  bool

	cfg config.Config
	log *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, cfg: config.Default()}

	root := &cobra.Command{
		Use:               "fieldlab",
		Short:             "Diffusion field and counter-signal laboratory",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&a.noColor, "no-color", false, "disable coloured log output")

	root.AddCommand(
		a.evolveCmd(),
		a.counterCmd(),
		a.compareCmd(),
		a.synthCmd(),
		a.metricsCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger. Flags override
// the file.
func (a *app) setup(*cobra.Command, []string) error {
	cfg := config.Default()
	if a.cfgPath != "" {
		loaded, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.noColor {
		cfg.Logging.NoColor = true
	}

	log, err := logging.New(a.stderr, cfg.Logging.Level, cfg.Logging.NoColor)
	if err != nil {
		return err
	}

	a.cfg, a.log = cfg, log
	if a.cfgPath != "" {
		a.log.Debug("configuration loaded", "path", a.cfgPath)
	}
	return nil
}
