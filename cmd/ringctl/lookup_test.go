package ringctl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNode(t *testing.T) {
	tables := []struct {
		arg    string
		id     string
		weight int
		fails  bool
	}{
		{arg: "node-1", id: "node-1", weight: 1},
		{arg: "node-1:4", id: "node-1", weight: 4},
		{arg: "cache.internal:9", id: "cache.internal", weight: 9},
		{arg: "node-1:x", fails: true},
	}

	for _, table := range tables {
		t.Run(table.arg, func(t *testing.T) {
			as := require.New(t)
			id, weight, err := parseNode(table.arg)
			if table.fails {
				as.Error(err)
				return
			}
			as.NoError(err)
			as.Equal(table.id, id)
			as.Equal(table.weight, weight)
		})
	}
}
