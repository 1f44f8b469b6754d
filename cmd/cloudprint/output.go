package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/enthus-golang/cloudprint"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	waitStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case cloudprint.ConnectionOnline, string(cloudprint.JobStatusDone):
		return goodStyle
	case cloudprint.ConnectionOffline, string(cloudprint.JobStatusError), string(cloudprint.JobStatusAborted):
		return badStyle
	}
	return waitStyle
}

func renderPrinters(w io.Writer, printers []cloudprint.Printer) {
	if len(printers) == 0 {
		fmt.Fprintln(w, "no printers found")
		return
	}

	rows := make([][]string, 0, len(printers))
	for _, p := range printers {
		rows = append(rows, []string{p.ID, p.Name, p.DisplayName, p.OwnerName, p.ConnectionStatus})
	}
	renderTable(w, []string{"ID", "NAME", "DISPLAY NAME", "OWNER", "STATUS"}, rows, 4)
}

func renderJobs(w io.Writer, jobs []cloudprint.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "no jobs found")
		return
	}

	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{j.ID, j.PrinterID, j.Title, j.ContentType, string(j.Status)})
	}
	renderTable(w, []string{"ID", "PRINTER", "TITLE", "TYPE", "STATUS"}, rows, 4)
}

// renderTable writes rows as a bordered table, colouring statusCol.
func renderTable(w io.Writer, headers []string, rows [][]string, statusCol int) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(rows) {
				return headerStyle
			}
			if col == statusCol {
				return statusStyle(rows[row][col]).Padding(0, 1)
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
}
