/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package serve

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dburkart/strata/pkg/server"
)

var Command = &cobra.Command{
	Use:   "serve",
	Short: "HTTP service parsing source into JSON syntax trees",

	RunE: func(cmd *cobra.Command, args []string) error {
		logger := viper.Get("logger").(zerolog.Logger)

		// Initialize the parse server
		srv := server.New(
			logger,
			viper.GetInt("strata.port"),
		)

		// Serve /parse and /metrics
		return srv.ListenAndServe()
	},
}

func init() {
	// Flags for this command
	Command.Flags().IntP("port", "p", 8001, "Port for /parse and /metrics")

	// Bind flags to viper
	viper.BindPFlag("strata.port", Command.Flags().Lookup("port"))
}
