package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudcmds/minijoe"
	"github.com/cloudcmds/minijoe/bytecode"
)

// ModuleExt is the extension given to compiled modules.
const ModuleExt = ".mjb"

func newCompileCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile source code to a bytecode module",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, v, args)
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout (default: input file with "+ModuleExt+" extension)")
	cmd.Flags().Bool("stats", false, "Print module statistics as JSON to stderr")
	return cmd
}

func runCompile(cmd *cobra.Command, v *viper.Viper, args []string) error {
	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	opts, err := getOptions(cmd, v, filename)
	if err != nil {
		return err
	}
	m, err := minijoe.CompileModule(code, opts...)
	if err != nil {
		return err
	}
	data, err := bytecode.Encode(m)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" && len(args) > 0 {
		output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ModuleExt
	}
	if output == "" || output == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	} else if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		out, err := formatJSON(newStatsOutput(m.Stats(), len(data)))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), string(out))
	}
	return nil
}

type statsOutput struct {
	ModuleBytes  int `json:"module_bytes"`
	Instructions int `json:"instructions"`
	CodeBytes    int `json:"code_bytes"`
	Strings      int `json:"strings"`
	Numbers      int `json:"numbers"`
	Functions    int `json:"functions"`
	Handlers     int `json:"handlers"`
}

func newStatsOutput(s bytecode.Stats, size int) statsOutput {
	return statsOutput{
		ModuleBytes:  size,
		Instructions: s.InstructionCount,
		CodeBytes:    s.CodeBytes,
		Strings:      s.StringCount,
		Numbers:      s.NumberCount,
		Functions:    s.FunctionCount,
		Handlers:     s.HandlerCount,
	}
}

func formatJSON(v any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}
