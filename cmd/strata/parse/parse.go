/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dburkart/strata/pkg/ast"
	"github.com/dburkart/strata/pkg/parser"
)

var ErrSyntax = errors.New("source did not parse")

var Command = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Parse source files and print their syntax trees",
	Long:  "Parse each file (or stdin when no file, or '-', is given) and print its syntax tree.",

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)

		mode, err := parser.ParseMode(viper.GetString("strata.mode"))
		if err != nil {
			return err
		}
		format := viper.GetString("strata.format")

		if len(args) == 0 {
			args = []string{"-"}
		}

		failed := false
		for _, path := range args {
			source, err := ReadSource(path)
			if err != nil {
				return err
			}
			log.Debug().Str("file", path).Str("size", humanize.Bytes(uint64(len(source)))).Msg("read source")

			var stats parser.Stats
			mod, err := parser.ParseString(source, mode,
				parser.WithLogger(log), parser.WithSourcePath(path), parser.WithStats(&stats))
			if err != nil {
				failed = true
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s", path, parser.FormatError(err, source))
				continue
			}
			log.Debug().Str("file", path).Str("tokens", humanize.Comma(int64(stats.Tokens))).Msg("parsed")

			if err := Render(cmd.OutOrStdout(), mod, format); err != nil {
				return err
			}
		}

		if failed {
			return ErrSyntax
		}
		return nil
	},
}

// ReadSource reads path, or stdin when path is "-".
func ReadSource(path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(b), nil
}

// Render writes mod to w as an indented dump, JSON or YAML.
func Render(w io.Writer, mod ast.Mod, format string) error {
	switch format {
	case "dump", "":
		_, err := io.WriteString(w, ast.Dump(mod))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ast.ToMap(mod))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ast.ToMap(mod)); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.Errorf("unknown output format '%s'", format)
}

func init() {
	// Flags for this command
	Command.Flags().StringP("mode", "m", "module", "Entry point [module, interactive, expression]")
	Command.Flags().StringP("format", "f", "dump", "Output format of the tree [dump, json, yaml]")

	// Bind flags to viper
	viper.BindPFlag("strata.mode", Command.Flags().Lookup("mode"))
	viper.BindPFlag("strata.format", Command.Flags().Lookup("format"))
}
