package main

import (
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-history/internal/portal"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	missingText = lipgloss.NewStyle().Faint(true).Render("NaN")
)

// renderFrame lays a history frame out as a table with one row per session.
func renderFrame(frame *portal.Frame) string {
	headers := append([]string{"session"}, frame.Symbols...)

	rows := make([][]string, len(frame.Sessions))
	for i, session := range frame.Sessions {
		row := make([]string, 0, len(headers))
		row = append(row, session.Format(time.DateOnly))

		for c := range frame.Symbols {
			row = append(row, frameCell(frame, i, c))
		}

		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return titleStyle.Render(string(frame.Field)) + "\n" + t.Render()
}

func frameCell(frame *portal.Frame, row int, col int) string {
	if frame.Labels != nil {
		return frame.Labels[row][col]
	}

	return formatValue(frame.Values[row][col])
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return missingText
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}
