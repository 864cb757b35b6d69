/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	CommandHelp   = ":HELP"
	CommandMode   = ":MODE"
	CommandTokens = ":TOKENS"
	CommandStats  = ":STATS"
	CommandQuit   = ":QUIT"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is a REPL meta-command such as `:mode expression`.
type Command struct {
	Name string
	Arg  string
}

// IsCommand reports whether line should be handled as a meta-command rather
// than as source text.
func IsCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ":")
}

// ParseCommand parses a meta-command line
//
// This function assumes there is no '\n'
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)

	// Commands take at most one argument, separated by a space
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name := strings.ToUpper(cmd); name {
	case CommandMode:
		if arg == "" {
			return Command{}, errors.New(":mode requires one of module, interactive or expression")
		}
		return Command{Name: name, Arg: arg}, nil
	case CommandHelp, CommandTokens, CommandStats, CommandQuit:
		return Command{Name: name, Arg: arg}, nil
	case ":Q", ":EXIT":
		return Command{Name: CommandQuit}, nil
	}

	return Command{}, errors.Wrapf(ErrUnknownCommand, "'%s'", cmd)
}
