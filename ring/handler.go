package ring

import (
	"fmt"
	"net/http"

	"github.com/jedib0t/go-pretty/v6/table"
)

// StatusHandler serves a human-readable summary of the current ring:
// registered nodes, their virtual node counts, tracked load, and how
// evenly the ring space is divided.
func (r *HashRing) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		view := r.Snapshot()

		fmt.Fprintf(w, "Physical nodes: %d\n", len(view.Nodes))
		fmt.Fprintf(w, "Virtual nodes:  %d\n", len(view.VirtualNodes))
		fmt.Fprintf(w, "Fallbacks:      %d\n", r.Fallbacks())
		fmt.Fprintf(w, "---\n")

		if len(view.Nodes) == 0 {
			fmt.Fprintf(w, "(empty ring)\n")
			return
		}

		shares := view.Shares()

		nodesTable := table.NewWriter()
		nodesTable.SetOutputMirror(w)
		nodesTable.AppendHeader(table.Row{"ID", "Weight", "Virtual Nodes", "Ring Share", "Load"})
		for _, n := range view.Nodes {
			nodesTable.AppendRow(table.Row{
				n.ID,
				n.Weight,
				n.VirtualNodes,
				fmt.Sprintf("%.4f", shares[n.ID]),
				n.Load,
			})
		}
		if balance, err := view.Balance(); err == nil {
			nodesTable.SetCaption("share stddev: %.6f (mean %.6f)", balance.StandardDeviation, balance.Mean)
		}
		nodesTable.SetStyle(table.StyleDefault)
		nodesTable.Style().Options.SeparateRows = true
		nodesTable.Render()
	})
}
