// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"

	"github.com/helixchain/helixvm/engine"
	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/ledger"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Run a contract script against a fresh in-memory chain",
	ArgsUsage: "<script file>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "hex",
			Usage: "treat the script file as hex-encoded text",
		},
		&cli.Int64Flag{
			Name:  "gas",
			Usage: "extra gas budget on top of the default baseline",
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "entry point offset into the script",
		},
		&cli.BoolFlag{
			Name:  "unmetered",
			Usage: "disable gas budget enforcement",
		},
	},
}

func doRun(context *cli.Context) error {
	if context.Args().Len() < 1 {
		return fmt.Errorf("missing script file argument")
	}
	script, err := os.ReadFile(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	if context.Bool("hex") {
		script, err = hex.DecodeString(strings.TrimSpace(string(script)))
		if err != nil {
			return fmt.Errorf("failed to decode script: %w", err)
		}
	}

	chain, err := ledger.NewMemChain()
	if err != nil {
		return err
	}

	events := engine.NewEvents()
	events.SubscribeLog(func(contract hash.Hash160, message string) {
		fmt.Printf("log [%x]: %s\n", contract, message)
	})

	e, runErr := engine.RunToCompletion(chain, script, engine.RunConfig{
		Gas:       context.Int64("gas"),
		Offset:    context.Int("offset"),
		Unmetered: context.Bool("unmetered"),
		Events:    events,
	})
	if e == nil {
		return runErr
	}

	fmt.Printf("state: %v\n", e.State())
	if runErr != nil {
		fmt.Printf("fault: %v\n", runErr)
	}
	fmt.Printf("gas consumed: %sgas\n", unitconv.FormatPrefix(float64(e.GasConsumed()), unitconv.SI, 2))
	for _, n := range e.Notifications() {
		fmt.Printf("notification [%x] %s: %v\n", n.Contract, n.Name, n.Item)
	}
	fmt.Println("result stack:")
	fmt.Print(e.VM().ResultStack())
	return nil
}
