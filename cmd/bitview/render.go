package main

import (
	"encoding/hex"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wippyai/bitfield/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	nestedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// renderTable draws the view's fields. selected is a row index to
// highlight, or -1.
func renderTable(v view.View, selected int, styled bool) string {
	return renderRows(v.Layout().Name(), collect(v, "", 0), selected, styled)
}

func renderRows(name string, rows []row, selected int, styled bool) string {
	t := table.New().
		Headers("field", "bits", "type", "value", "hex")
	for _, r := range rows {
		t.Row(strings.Repeat("  ", r.depth)+r.path, r.bits, r.typ, r.value, r.raw)
	}

	if styled {
		t.Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))).
			StyleFunc(func(i, _ int) lipgloss.Style {
				switch {
				case i == table.HeaderRow:
					return headerStyle
				case i == selected:
					return selectedStyle
				case !rows[i].leaf:
					return nestedStyle
				}
				return cellStyle
			})
		return titleStyle.Render(name) + "\n" + t.Render()
	}

	t.Border(lipgloss.ASCIIBorder()).
		StyleFunc(func(i, _ int) lipgloss.Style {
			if i != table.HeaderRow && i == selected {
				return cellStyle.Reverse(true)
			}
			return cellStyle
		})
	return name + "\n" + t.Render()
}

// renderHex dumps the bytes under the view, 16 per line.
func renderHex(v view.View) string {
	b := v.Bytes()
	var sb strings.Builder
	for i := 0; i < len(b); i += 16 {
		end := min(i+16, len(b))
		line := hex.EncodeToString(b[i:end])
		for j := 0; j < len(line); j += 2 {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(line[j : j+2])
		}
		sb.WriteByte('\n')
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
