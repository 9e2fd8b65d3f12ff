package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `---
title: "Goals Export"
goal_count: 1
---

# Goals Export

| # | Update |
|---|---|
| 1 | Scales |
`

func TestParseRendersTablesWithoutFrontmatter(t *testing.T) {
	html, err := NewParser().Parse([]byte(sample))
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, `<h1 id="goals-export">Goals Export</h1>`)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>Scales</td>")
	assert.NotContains(t, out, "goal_count")
}

func TestExtractFrontmatter(t *testing.T) {
	p := NewParser()

	meta := p.ExtractFrontmatter([]byte(sample))
	assert.Equal(t, "Goals Export", meta["title"])
	assert.EqualValues(t, 1, meta["goal_count"])

	assert.Empty(t, p.ExtractFrontmatter([]byte("# No frontmatter\n")))
}
