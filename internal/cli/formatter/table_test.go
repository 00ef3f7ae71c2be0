package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"DATE", "PARTICIPANT"},
		[][]string{
			{"2025-02-03", "Anna Petrova"},
			{"2025-02-04", "Ivan Sidorov"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "DATE")
	assert.Contains(t, lines[0], "PARTICIPANT")
	assert.Contains(t, lines[1], "─")
	assert.Contains(t, lines[2], "Anna Petrova")
	assert.Contains(t, lines[3], "Ivan Sidorov")
}

func TestRenderTable_PadsShortRows(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"only"}})
	assert.Contains(t, out, "only")
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Equal(t, "", RenderTable(nil, [][]string{{"x"}}))
}
