package output

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// maxCell is the widest formula or reference list shown in a table cell.
const maxCell = 48

// Stat is one labelled figure of a summary table.
type Stat struct {
	Label string
	Value any
}

// ItemSummary contains data for one row of the item table.
type ItemSummary struct {
	Name         string
	Calculation  bool
	Formula      string
	Dependencies []string
	Dependents   int
	Dangling     []string
}

// RowFailure is a batch row whose operation failed.
type RowFailure struct {
	Row   int
	Name  string
	Error string
}

// Stats prints a two-column table of labelled figures.
func (p *Printer) Stats(title string, stats []Stat) {
	p.Section(title)

	t := p.newTable()
	for _, s := range stats {
		t.AppendRow(table.Row{s.Label, s.Value})
	}
	t.Render()
	p.Println()
}

// Items prints the item table in the given order.
func (p *Printer) Items(items []ItemSummary) {
	if len(items) == 0 {
		return
	}

	t := p.newTable()
	t.AppendHeader(table.Row{"#", "Name", "Calc", "Formula", "Depends On", "Used By", "Unknown Refs"})
	for i, it := range items {
		dangling := strings.Join(it.Dangling, ", ")
		if dangling != "" {
			dangling = p.render(lipgloss.NewStyle().Foreground(ColorRed), Truncate(dangling, maxCell))
		}
		t.AppendRow(table.Row{
			i + 1,
			it.Name,
			p.Checkmark(it.Calculation),
			Truncate(it.Formula, maxCell),
			Truncate(strings.Join(it.Dependencies, ", "), maxCell),
			it.Dependents,
			dangling,
		})
	}
	t.Render()
	p.Println()
}

// Cycles prints one row per circular reference path.
func (p *Printer) Cycles(cycles [][]string) {
	if len(cycles) == 0 {
		return
	}

	t := p.newTable()
	t.AppendHeader(table.Row{"#", "Items", "Path"})
	for i, c := range cycles {
		// Paths repeat their first node at the end.
		size := len(c) - 1
		if size < 1 {
			size = len(c)
		}
		t.AppendRow(table.Row{i + 1, size, strings.Join(c, " → ")})
	}
	t.Render()
	p.Println()
}

// Failures prints the failed rows of a batch run.
func (p *Printer) Failures(failures []RowFailure) {
	if len(failures) == 0 {
		return
	}

	p.Section("FAILED ROWS")

	t := p.newTable()
	t.AppendHeader(table.Row{"Row", "Name", "Error"})
	for _, f := range failures {
		t.AppendRow(table.Row{strconv.Itoa(f.Row), f.Name, p.render(lipgloss.NewStyle().Foreground(ColorRed), f.Error)})
	}
	t.Render()
	p.Println()
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(p.tableStyle())
	return t
}

// tableStyle returns the standard table style.
func (p *Printer) tableStyle() table.Style {
	style := table.StyleRounded
	if p.color {
		style.Color.Header = text.Colors{text.FgHiYellow, text.Bold}
		style.Color.Border = text.Colors{text.FgHiBlack}
	}
	style.Options.SeparateRows = false
	return style
}
