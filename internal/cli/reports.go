package cli

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/report"
	"github.com/matzehuels/brickfall/pkg/store"
)

// reportsCommand creates the reports command group.
func (c *CLI) reportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List and show saved reports",
		Long: `List and show reports saved with "analyze --save" or through the API.

The store backend is chosen by the [store] section of the config file.`,
	}

	cmd.AddCommand(c.reportsListCommand())
	cmd.AddCommand(c.reportsShowCommand())

	return cmd
}

func (c *CLI) reportsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			entries, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No saved reports")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), entriesTable(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of reports to list")
	return cmd
}

func (c *CLI) reportsShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			rep, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return showReport(cmd.OutOrStdout(), rep, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}

// showReport writes a stored report in the requested format.
func showReport(w io.Writer, rep *report.Report, format string) error {
	switch format {
	case formatJSON:
		return report.WriteJSON(w, rep)
	case formatYAML:
		return report.WriteYAML(w, rep)
	case formatText:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "invalid format %q (must be one of: text, json, yaml)", format)
	}

	var buf bytes.Buffer
	row := func(k, v string) {
		fmt.Fprintln(&buf, keyValue(k, StyleValue.Render(v)))
	}
	fmt.Fprintln(&buf, StyleTitle.Render("Report "+rep.ID))
	row("Created", rep.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	row("Input", rep.InputHash[:min(12, len(rep.InputHash))])
	row("Safe to remove", strconv.Itoa(rep.SafeCount))
	row("Cascade total", strconv.Itoa(rep.CascadeTotal))
	fmt.Fprintln(&buf, statsLine(rep.BrickCount, rep.EdgeCount, rep.Moved, false))
	_, err := w.Write(buf.Bytes())
	return err
}

// entriesTable renders store listings.
func entriesTable(entries []store.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(e.BrickCount),
			strconv.Itoa(e.SafeCount),
			strconv.Itoa(e.CascadeTotal),
		})
	}

	return newTable(func(_, col int) lipgloss.Style {
		if col == 0 {
			return lipgloss.NewStyle().Foreground(colorCyan)
		}
		return lipgloss.NewStyle()
	}, "ID", "Created", "Bricks", "Safe", "Cascade").Rows(rows...).Render()
}
