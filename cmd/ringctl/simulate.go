package ringctl

import (
	"fmt"
	"os"

	"go.miragespace.co/hashring/ring"
	specRing "go.miragespace.co/hashring/spec/ring"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func Simulate() *cli.Command {
	return &cli.Command{
		Name:        "simulate",
		Usage:       "report key distribution and membership disruption for a synthetic ring",
		ArgsUsage:   " ",
		Description: `Builds a ring with the given shape, assigns a synthetic keyspace with the bounded-load policy, then adds one node and measures how many keys moved.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "nodes",
				Value: 8,
				Usage: "number of physical nodes",
			},
			&cli.IntFlag{
				Name:  "vnodes",
				Value: specRing.DefaultVirtualNodes,
				Usage: "virtual nodes per unit of weight",
			},
			&cli.IntFlag{
				Name:  "keys",
				Value: 100000,
				Usage: "number of synthetic keys",
			},
			&cli.Float64Flag{
				Name:  "load-factor",
				Value: specRing.DefaultLoadFactor,
				Usage: "bounded-load factor (1 + epsilon)",
			},
		},
		Action: cmdSimulate,
	}
}

func cmdSimulate(ctx *cli.Context) error {
	logger := ctx.App.Metadata["logger"].(*zap.Logger)

	var (
		numNodes = ctx.Int("nodes")
		numKeys  = ctx.Int("keys")
	)
	if numNodes < 1 {
		return fmt.Errorf("need at least one node")
	}
	if numKeys < 1 {
		return fmt.Errorf("need at least one key")
	}

	r := ring.New(ring.Config{
		Logger:       logger,
		VirtualNodes: ctx.Int("vnodes"),
		LoadFactor:   ctx.Float64("load-factor"),
	})
	for i := 0; i < numNodes; i++ {
		if err := r.AddNode(fmt.Sprintf("node-%d", i), 1); err != nil {
			return err
		}
	}

	keys := make([][]byte, numKeys)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("key-%d", i))
	}
	for _, key := range keys {
		if _, err := r.AssignKey(key); err != nil {
			return err
		}
	}

	before := r.Snapshot()
	shares := before.Shares()

	distTable := table.NewWriter()
	distTable.SetOutputMirror(os.Stdout)
	distTable.AppendHeader(table.Row{"Node", "Virtual Nodes", "Ring Share", "Assigned Keys"})
	for _, n := range before.Nodes {
		distTable.AppendRow(table.Row{
			n.ID,
			n.VirtualNodes,
			fmt.Sprintf("%.4f", shares[n.ID]),
			n.Load,
		})
	}
	if balance, err := before.Balance(); err == nil {
		distTable.SetCaption("share stddev: %.6f (mean %.6f), bounded-load fallbacks: %d",
			balance.StandardDeviation, balance.Mean, r.Fallbacks())
	}
	distTable.SetStyle(table.StyleDefault)
	distTable.Render()

	if err := r.AddNode(fmt.Sprintf("node-%d", numNodes), 1); err != nil {
		return err
	}
	after := r.Snapshot()

	moved, err := specRing.Disruption(r.Hasher, before, after, keys)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "disruption after adding 1 node: %.4f (expected ~%.4f)\n",
		moved, 1.0/float64(numNodes+1))

	return nil
}
