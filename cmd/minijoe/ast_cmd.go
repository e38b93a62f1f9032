package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudcmds/minijoe"
	"github.com/cloudcmds/minijoe/ast"
)

func newASTCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Display the syntax tree of source code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(cmd, v, args)
		},
	}
	addInputFlags(cmd)
	cmd.Flags().Bool("stmts", false, "Print one top-level statement per line with its line number")
	return cmd
}

func runAST(cmd *cobra.Command, v *viper.Viper, args []string) error {
	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	opts, err := getOptions(cmd, v, filename)
	if err != nil {
		return err
	}
	program, err := minijoe.Parse(code, opts...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if stmts, _ := cmd.Flags().GetBool("stmts"); stmts {
		for _, stmt := range program.Stmts {
			fmt.Fprintf(out, "%4d  %s\n", ast.Line(stmt), stmt.String())
		}
		return nil
	}
	fmt.Fprintln(out, program.String())
	return nil
}
