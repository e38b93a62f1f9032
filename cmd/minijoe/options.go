package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudcmds/minijoe"
	mjerrors "github.com/cloudcmds/minijoe/errors"
)

const defaultConfigFile = ".minijoe.toml"

// loadConfig returns the config file settings, or the defaults when no
// file is given and none exists in the home directory.
func loadConfig(v *viper.Viper) (minijoe.Config, error) {
	path := v.GetString("config")
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return minijoe.DefaultConfig(), nil
		}
		path = filepath.Join(home, defaultConfigFile)
		if _, err := os.Stat(path); err != nil {
			return minijoe.DefaultConfig(), nil
		}
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return minijoe.Config{}, err
	}
	return minijoe.LoadConfig(path)
}

// getOptions merges the config file with flags and environment variables
// that were set explicitly.
func getOptions(cmd *cobra.Command, v *viper.Viper, filename string) ([]minijoe.Option, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}
	isSet := func(name string) bool {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return true
		}
		_, ok := os.LookupEnv(envName(name))
		return ok
	}
	if isSet("fast-locals") {
		cfg.FastLocals = v.GetBool("fast-locals")
	}
	if isSet("line-numbers") {
		cfg.LineNumbers = v.GetBool("line-numbers")
	}
	if isSet("strict-numbers") {
		cfg.StrictNumbers = v.GetBool("strict-numbers")
	}
	if isSet("max-depth") {
		cfg.MaxDepth = v.GetInt("max-depth")
	}
	if isSet("dump-source") {
		cfg.DumpSource = v.GetBool("dump-source")
	}
	if isSet("dump-tree") {
		cfg.DumpTree = v.GetBool("dump-tree")
	}
	if isSet("dump-bytecode") {
		cfg.DumpBytecode = v.GetBool("dump-bytecode")
	}
	if cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("max-depth must be positive, got %d", cfg.MaxDepth)
	}
	if filename != "" {
		cfg.Filename = filename
	}

	opts := []minijoe.Option{minijoe.WithConfig(cfg)}
	if v.GetBool("debug") {
		opts = append(opts, minijoe.WithLogger(newLogger(cmd.ErrOrStderr())))
	}
	return opts, nil
}

func envName(flag string) string {
	return "MINIJOE_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func newLogger(w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// addInputFlags registers the flags selecting where source code comes from.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Source code to process")
	cmd.Flags().Bool("stdin", false, "Read source code from stdin")
}

// getCode returns the source to process and its filename. There are three
// possibilities:
//  1. --code <code>
//  2. --stdin (read code from stdin)
//  3. path as args[0]
func getCode(cmd *cobra.Command, args []string) (string, string, error) {
	codeSet := cmd.Flags().Lookup("code").Changed
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	pathSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeSet, stdinSet, pathSupplied} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", "", errors.New("multiple input sources specified")
	}
	if count == 0 {
		return "", "", errors.New("no input provided")
	}

	switch {
	case stdinSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return string(data), "<stdin>", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	code, _ := cmd.Flags().GetString("code")
	return code, "<code>", nil
}

// formatError renders compile and parse errors as source excerpts and
// everything else as its message.
func formatError(err error, useColor bool) string {
	var fe mjerrors.FormattableError
	if errors.As(err, &fe) {
		return mjerrors.NewFormatter(useColor).Format(fe.ToFormatted())
	}
	if useColor {
		return color.New(color.FgRed).Sprint(err.Error())
	}
	return err.Error()
}
