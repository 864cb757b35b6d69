/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tokens

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dburkart/strata/cmd/strata/parse"
	"github.com/dburkart/strata/pkg/lexer"
	"github.com/dburkart/strata/pkg/parser"
	"github.com/dburkart/strata/pkg/repl"
	"github.com/dburkart/strata/pkg/token"
)

var Command = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the token table of a source file",
	Args:  cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)

		output := viper.GetString("strata.output")
		if !validFormat(output) {
			return errors.Errorf("unsupported output format '%s'", output)
		}

		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		source, err := parse.ReadSource(path)
		if err != nil {
			return err
		}

		table, err := Table(source, viper.GetBool("strata.raw"))
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), parser.FormatError(err, source))
			return err
		}
		log.Debug().Str("file", path).Str("tokens", humanize.Comma(int64(len(table)))).Send()

		return repl.NewOutputWriter(cmd.OutOrStdout(), output).Write(table)
	},
}

// Table lexes source into a token table. Unless raw is set, comments and
// non-logical newlines are dropped the way the parser interns them.
func Table(source string, raw bool) (repl.TokenTable, error) {
	if raw {
		toks, err := token.Collect(lexer.New(source))
		if err != nil {
			return nil, err
		}
		return repl.TokenTable(toks), nil
	}

	s, err := parser.NewSession(lexer.New(source))
	if err != nil {
		return nil, err
	}
	return repl.TokenTable(s.Tokens()), nil
}

func validFormat(output string) bool {
	for _, f := range repl.Formats {
		if f == output {
			return true
		}
	}
	return false
}

func init() {
	// Flags for this command
	Command.Flags().StringP("output", "o", "text", "Output format of the table [csv, json, text]")
	Command.Flags().Bool("raw", false, "Include comments and non-logical newlines")

	// Bind flags to viper
	viper.BindPFlag("strata.output", Command.Flags().Lookup("output"))
	viper.BindPFlag("strata.raw", Command.Flags().Lookup("raw"))
}
