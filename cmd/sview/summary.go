package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/j-veylop/sview/internal/config"
	"github.com/j-veylop/sview/internal/logger"
	"github.com/j-veylop/sview/internal/models"
	"github.com/j-veylop/sview/internal/services"
)

func newSummaryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "summary [result.json]",
		Aliases: []string{"sum"},
		Short:   "Print per-series statistics of a query result",
		Long: `Print one line per series: observed buckets, minimum, maximum and the
newest value. Series follow the chart's key order.

Examples:
  sview summary result.json
  sview summary --group host,region result.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.configure(cmd, args)
			if err != nil {
				return err
			}
			defer c.closeLog()

			svcManager, err := services.NewManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize services: %w", err)
			}
			defer func() {
				if closeErr := svcManager.Close(); closeErr != nil {
					logger.Warn("error closing services", "error", closeErr)
				}
			}()
			return printSummary(cmd.OutOrStdout(), cfg, svcManager.Current())
		},
	}
}

func newSummaryTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

// printSummary writes the source line and the series table of result.
func printSummary(w io.Writer, cfg *config.Config, result *models.QueryResult) error {
	if result == nil || len(result.Rows) == 0 {
		_, err := fmt.Fprintln(w, "Empty data provided to table")
		return err
	}

	if _, err := fmt.Fprintf(w, "%s (%s, %s rows)\n\n", result.Origin, result.Kind,
		humanize.Comma(int64(result.RowCount()))); err != nil {
		return err
	}

	rows := make([][]string, 0)
	for _, s := range services.Summarize(cfg, result) {
		row := []string{s.Key, strconv.Itoa(s.Observed), "-", "-", "-"}
		if s.HasValues {
			row[2] = humanize.CommafWithDigits(s.Min, 2)
			row[3] = humanize.CommafWithDigits(s.Max, 2)
			row[4] = humanize.CommafWithDigits(s.Latest, 2)
		}
		rows = append(rows, row)
	}

	table := newSummaryTable(w)
	table.Header([]string{"Series", "Observed", "Min", "Max", "Latest"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
