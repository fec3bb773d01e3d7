package ringctl

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.miragespace.co/hashring/ring"
	specRing "go.miragespace.co/hashring/spec/ring"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func Lookup() *cli.Command {
	return &cli.Command{
		Name:        "lookup",
		Usage:       "resolve the owner and replica set of keys against a given membership",
		ArgsUsage:   "KEY [KEY...]",
		Description: `Nodes are given as id or id:weight (repeatable). Each key argument is resolved to its owning node and preference list.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "node",
				Required: true,
				Usage:    "ring member as id or id:weight (repeatable)",
			},
			&cli.IntFlag{
				Name:  "replicas",
				Value: 3,
				Usage: "preference list length to resolve per key",
			},
		},
		Action: cmdLookup,
	}
}

func parseNode(arg string) (id string, weight int, err error) {
	id = arg
	weight = 1
	if idx := strings.LastIndex(arg, ":"); idx >= 0 {
		id = arg[:idx]
		weight, err = strconv.Atoi(arg[idx+1:])
		if err != nil {
			return "", 0, fmt.Errorf("invalid node %q: %w", arg, err)
		}
	}
	return id, weight, nil
}

func cmdLookup(ctx *cli.Context) error {
	logger := ctx.App.Metadata["logger"].(*zap.Logger)

	if ctx.NArg() < 1 {
		return fmt.Errorf("at least one key argument is required")
	}

	r := ring.New(ring.Config{
		Logger: logger,
	})
	for _, arg := range ctx.StringSlice("node") {
		id, weight, err := parseNode(arg)
		if err != nil {
			return err
		}
		if err := r.AddNode(id, weight); err != nil {
			return err
		}
	}

	keysTable := table.NewWriter()
	keysTable.SetOutputMirror(os.Stdout)
	keysTable.AppendHeader(table.Row{"Key", "Owner", "Replicas"})

	for _, key := range ctx.Args().Slice() {
		replicas, err := r.GetReplicas([]byte(key), ctx.Int("replicas"))
		if err != nil && !errors.Is(err, specRing.ErrInsufficientReplicas) {
			return err
		}
		keysTable.AppendRow(table.Row{key, replicas[0], strings.Join(replicas, ", ")})
	}

	keysTable.SetStyle(table.StyleDefault)
	keysTable.Render()

	return nil
}
