package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	green         = color.New(color.FgHiGreen).SprintFunc()
	red           = color.New(color.FgHiRed).SprintFunc()
	cyan          = color.New(color.FgHiCyan).SprintFunc()
)

// ui writes command output to a cobra command's writer.
type ui struct {
	out io.Writer
}

func (u ui) success(format string, a ...any) {
	fmt.Fprintf(u.out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u ui) table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(u.out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

func openColor(open bool) string {
	if open {
		return green("open")
	}
	return red("closed")
}
