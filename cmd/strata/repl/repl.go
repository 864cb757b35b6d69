/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dburkart/strata/cmd/strata/parse"
	"github.com/dburkart/strata/pkg/parser"
	"github.com/dburkart/strata/pkg/repl"
)

const (
	prompt             = "\033[31m>>>\033[0m "
	continuationPrompt = "\033[31m...\033[0m "
)

var Command = &cobra.Command{
	Use:   "repl",
	Short: "Interactive prompt printing the syntax tree of each statement",

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)

		output := viper.GetString("strata.repl.output")
		if !contains(repl.Formats, output) {
			return errors.Errorf("unsupported output format '%s'", output)
		}

		mode, err := parser.ParseMode(viper.GetString("strata.repl.mode"))
		if err != nil {
			return err
		}

		return readlinePrompt(log, mode, output, cmd.OutOrStdout())
	},
}

func init() {
	// Flags for this command
	Command.Flags().StringP("output", "o", "text", "Output format of :tokens and :stats [csv, json, text]")
	Command.Flags().StringP("mode", "m", "interactive", "Initial entry point [module, interactive, expression]")

	// Bind flags to viper
	viper.BindPFlag("strata.repl.output", Command.Flags().Lookup("output"))
	viper.BindPFlag("strata.repl.mode", Command.Flags().Lookup("mode"))
}

func contains(s []string, v string) bool {
	for i := range s {
		if s[i] == v {
			return true
		}
	}
	return false
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func listModes(line string) []string {
	return []string{
		parser.ModeModule.String(),
		parser.ModeInteractive.String(),
		parser.ModeExpression.String(),
	}
}

func readlinePrompt(log zerolog.Logger, mode parser.Mode, output string, out io.Writer) error {
	// Configure the completer
	completer := readline.NewPrefixCompleter(
		readline.PcItem(":help"),
		readline.PcItem(":mode", readline.PcItemDynamic(listModes)),
		readline.PcItem(":tokens"),
		readline.PcItem(":stats"),
		readline.PcItem(":quit"),
	)

	// Setup the readline executor
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	evaluator := repl.NewEvaluator(log, mode)

	// Configure output writer
	writer := repl.NewOutputWriter(out, output)

	// Handle input
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			evaluator.Reset()
			rl.SetPrompt(prompt)
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		if !evaluator.Pending() && repl.IsCommand(line) {
			cmd, err := repl.ParseCommand(line)
			if err != nil {
				log.Error().Err(err).Send()
				continue
			}

			switch cmd.Name {
			case repl.CommandHelp:
				fmt.Fprintln(out, "usage:")
				fmt.Fprintln(out, completer.Tree("    "))
			case repl.CommandQuit:
				return nil
			case repl.CommandMode:
				m, err := parser.ParseMode(cmd.Arg)
				if err != nil {
					log.Error().Err(err).Send()
					continue
				}
				evaluator.Mode = m
				fmt.Fprintf(out, "mode: %s\n", m)
			case repl.CommandTokens:
				if err := writer.Write(evaluator.Tokens()); err != nil {
					log.Error().Err(err).Send()
				}
			case repl.CommandStats:
				if err := writer.Write(evaluator.Stats()); err != nil {
					log.Error().Err(err).Send()
				}
			}
			continue
		}

		mod, err := evaluator.Feed(line)
		if err == repl.ErrIncomplete {
			if evaluator.Pending() {
				rl.SetPrompt(continuationPrompt)
			}
			continue
		}
		rl.SetPrompt(prompt)

		if err != nil {
			fmt.Fprint(os.Stderr, parser.FormatError(err, evaluator.Source()))
			continue
		}

		if err := parse.Render(out, mod, "dump"); err != nil {
			log.Error().Err(err).Send()
		}
	}

	rl.Clean()
	return nil
}
