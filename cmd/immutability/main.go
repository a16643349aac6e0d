// Command immutability reports trust classifications for Go types.
//
//	immutability levels
//	immutability registry --format yaml
//	immutability scan ./... --fail-below construction-invariant
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitBelow   = 1 // scan found types weaker than --fail-below
	ExitError   = 2
)

// exitError carries a non-zero exit code out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// fileConfig is the --config YAML document.
type fileConfig struct {
	LogLevel  string            `yaml:"log_level"`
	Overrides map[string]string `yaml:"overrides"`
}

// app holds state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	cfg fileConfig
	log *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitError)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "immutability",
		Short:         "Classify Go types by how far their immutability can be trusted",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML file with log_level and overrides (default "+defaultConfigFile+" if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default info)")

	root.AddCommand(newLevelsCmd(a), newRegistryCmd(a), newScanCmd(a))
	return root
}

// defaultConfigFile is read from the working directory when --config is unset.
const defaultConfigFile = ".immutability.yaml"

func (a *app) setup(stderr io.Writer) error {
	path := a.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	name := a.logLevel
	if name == "" {
		name = a.cfg.LogLevel
	}
	level, err := parseLogLevel(name)
	if err != nil {
		return err
	}
	a.log = slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(a.log)
	return nil
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
