package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/pipeline"
	"github.com/matzehuels/brickfall/pkg/report"
)

// Report output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// analyzeOpts holds the flags of the analyze command.
type analyzeOpts struct {
	workers int
	top     int
	format  string
	output  string
	quiet   bool
	noCache bool
	refresh bool
	save    bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "analyze [snapshot]",
		Short: "Settle a snapshot and count safe bricks and cascade sizes",
		Long: `Settle a brick snapshot and analyze its support graph.

Reads one brick per line in the form x1,y1,z1~x2,y2,z2 (or a .json snapshot)
from the given file, or from stdin when no file or "-" is given. Prints the
number of bricks that can be removed without anything falling, and the sum
over all bricks of how many others would fall if it were removed.

Reports are cached by input, so re-analyzing the same snapshot is instant.`,
		Example: `  brickfall analyze bricks.txt
  brickfall analyze --top 10 bricks.txt
  cat bricks.txt | brickfall analyze --quiet
  brickfall analyze --format yaml -o report.yaml bricks.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case formatText, formatJSON, formatYAML:
			default:
				return errs.New(errs.ErrCodeInvalidInput, "invalid format %q (must be one of: text, json, yaml)", opts.format)
			}
			return c.runAnalyze(cmd.Context(), inputArg(args), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "goroutines for cascade analysis (default from config, 0 = one per CPU)")
	cmd.Flags().IntVar(&opts.top, "top", 0, "list the n bricks with the largest cascades")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json, yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print only the safe count and the cascade total")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached report exists")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the report to the report store")

	return cmd
}

// runAnalyze runs the pipeline and prints the report.
func (c *CLI) runAnalyze(ctx context.Context, input string, stdin io.Reader, stdout io.Writer, opts analyzeOpts) error {
	bricks, err := readInput(ctx, input, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, pipeline.Options{
		Bricks:  bricks,
		Workers: c.workers(opts.workers),
		Refresh: opts.refresh,
		TTL:     c.Config.Cache.TTL.Duration,
		Logger:  c.Logger,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	prog.done(fmt.Sprintf("Analyzed %d bricks", result.Stats.BrickCount))

	if opts.save {
		if err := c.saveReport(ctx, result.Report); err != nil {
			return err
		}
	}

	data, err := formatReport(result, opts)
	if err != nil {
		return err
	}
	if err := writeOutput(opts.output, stdout, data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if opts.output != "" && !opts.quiet {
		printSuccess("Report written")
		printFile(opts.output)
	}
	return nil
}

// saveReport persists rep in the configured store.
func (c *CLI) saveReport(ctx context.Context, rep *report.Report) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.Save(ctx, rep); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	loggerFromContext(ctx).Info("Saved report", "id", rep.ID, "backend", c.Config.Store.Backend)
	return nil
}

// formatReport renders a pipeline result in the requested format.
func formatReport(result *pipeline.Result, opts analyzeOpts) ([]byte, error) {
	rep := result.Report
	if opts.quiet {
		return fmt.Appendf(nil, "%d\n%d\n", rep.SafeCount, rep.CascadeTotal), nil
	}

	var buf bytes.Buffer
	switch opts.format {
	case formatJSON:
		if err := report.WriteJSON(&buf, rep); err != nil {
			return nil, err
		}
	case formatYAML:
		if err := report.WriteYAML(&buf, rep); err != nil {
			return nil, err
		}
	default:
		writeSummary(&buf, result, opts.top)
	}
	return buf.Bytes(), nil
}

// writeSummary prints the human-readable result.
func writeSummary(w io.Writer, result *pipeline.Result, top int) {
	rep := result.Report

	fmt.Fprintln(w, StyleTitle.Render("Brickfall report"))
	fmt.Fprintln(w, keyValue("Safe to remove", StyleNumber.Render(strconv.Itoa(rep.SafeCount))))
	fmt.Fprintln(w, keyValue("Cascade total", StyleNumber.Render(strconv.Itoa(rep.CascadeTotal))))
	fmt.Fprintln(w, statsLine(rep.BrickCount, rep.EdgeCount, rep.Moved, result.CacheInfo.ReportHit))

	if top > 0 {
		if ids := rep.Summary().Critical(top); len(ids) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, criticalTable(rep, ids))
		}
	}
}

// criticalTable renders the bricks with the largest cascades.
func criticalTable(rep *report.Report, ids []brick.ID) string {
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		e := rep.Bricks[id]
		rows = append(rows, []string{
			strconv.Itoa(int(e.ID)),
			e.Lo.String() + "~" + e.Hi.String(),
			strconv.Itoa(len(e.Below)),
			strconv.Itoa(len(e.Above)),
			strconv.Itoa(e.Falls),
		})
	}

	return newTable(func(_, col int) lipgloss.Style {
		if col == 4 {
			return lipgloss.NewStyle().Foreground(colorYellow)
		}
		return lipgloss.NewStyle()
	}, "Brick", "Position", "Below", "Above", "Falls").Rows(rows...).Render()
}
