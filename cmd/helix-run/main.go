// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// helix-run evaluates a contract script file against a fresh in-memory chain
// and prints the outcome of the run.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	_ "github.com/helixchain/helixvm/interops"
)

func main() {
	app := &cli.App{
		Name:      "helix-run",
		Usage:     "Helix script evaluation driver",
		Copyright: "(c) 2024 Helix Chain Labs",
		Flags:     []cli.Flag{},
		Commands: []*cli.Command{
			&RunCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
