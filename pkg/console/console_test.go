package console

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestTableRender(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	table := NewConsole().CreateTable()
	table.AddColumn("Metric")
	table.AddColumn("Value")
	table.AddRow("Duplicate rows", 2)
	table.AddRow("Output", "/data/Result/duplicates.csv")

	out := table.Render()
	assert.Contains(t, out, "Accrual Run Summary")
	assert.Contains(t, out, "Duplicate rows")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "/data/Result/duplicates.csv")
}

func TestLogWritesToWriter(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	buf := &bytes.Buffer{}
	c := NewConsoleWithWriter(buf)

	c.LogSuccess("All files loaded (%d rows)", 7)
	c.LogWarning("%d row(s) still have no account", 1)
	c.Println("done")

	assert.Contains(t, buf.String(), "All files loaded (7 rows)")
	assert.Contains(t, buf.String(), "1 row(s) still have no account")
	assert.Contains(t, buf.String(), "done")
}
