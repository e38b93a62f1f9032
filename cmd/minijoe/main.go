// Command minijoe compiles MiniJoe source files into bytecode modules and
// inspects the results.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Settings are read from flags, then
// MINIJOE_* environment variables, then the config file.
func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "minijoe",
		Short:         "Compile MiniJoe programs to bytecode",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return processGlobalFlags(v)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "TOML config file (default ~/.minijoe.toml if present)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("debug", false, "Log compiler debug events to stderr")
	flags.Bool("fast-locals", true, "Address function locals by slot where possible")
	flags.Bool("line-numbers", true, "Emit line number tables")
	flags.Bool("strict-numbers", false, "Reject numeric literals that cannot be converted")
	flags.Int("max-depth", 0, "Maximum parser nesting depth")
	flags.Bool("dump-source", false, "Log the source text (with --debug)")
	flags.Bool("dump-tree", false, "Log the parsed tree (with --debug)")
	flags.Bool("dump-bytecode", false, "Log the disassembled module (with --debug)")

	v.SetEnvPrefix("minijoe")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)
	_ = v.BindEnv("no-color", "NO_COLOR", "MINIJOE_NO_COLOR")

	root.AddCommand(
		newCompileCmd(v),
		newDisCmd(v),
		newASTCmd(v),
	)
	return root
}

func processGlobalFlags(v *viper.Viper) error {
	if v.GetBool("no-color") {
		color.NoColor = true
	}
	return nil
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, strings.TrimRight(formatError(err, !color.NoColor), "\n"))
}
