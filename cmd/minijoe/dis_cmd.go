package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudcmds/minijoe"
	"github.com/cloudcmds/minijoe/bytecode"
	"github.com/cloudcmds/minijoe/dis"
)

func newDisCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble a compiled module or the module compiled from source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDis(cmd, v, args)
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("func", "", "Function to disassemble")
	return cmd
}

func runDis(cmd *cobra.Command, v *viper.Viper, args []string) error {
	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}

	// Compiled modules are recognized by their magic prefix.
	var m *bytecode.Module
	if bytes.HasPrefix([]byte(code), bytecode.Magic[:]) {
		m, err = bytecode.Decode([]byte(code))
	} else {
		var opts []minijoe.Option
		if opts, err = getOptions(cmd, v, filename); err != nil {
			return err
		}
		m, err = minijoe.CompileModule(code, opts...)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	funcName, _ := cmd.Flags().GetString("func")
	if funcName == "" {
		return dis.PrintModule(m, out)
	}
	for _, fn := range m.Flatten()[1:] {
		if fn.Comment() != funcName {
			continue
		}
		instructions, err := dis.Disassemble(fn)
		if err != nil {
			return err
		}
		return dis.Print(instructions, out)
	}
	return fmt.Errorf("function %q not found", funcName)
}
