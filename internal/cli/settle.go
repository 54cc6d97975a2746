package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	bio "github.com/matzehuels/brickfall/pkg/io"
	"github.com/matzehuels/brickfall/pkg/pipeline"
)

// settleCommand creates the settle command.
func (c *CLI) settleCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "settle [snapshot]",
		Short: "Drop every brick until it rests and write the settled snapshot",
		Long: `Drop every brick until it rests on the floor or on another brick.

The settled snapshot is written in the same line format as the input (or as
JSON when the output file ends in .json), so settling it again changes
nothing. Without -o the snapshot is written to stdout.`,
		Example: `  brickfall settle bricks.txt -o settled.txt
  brickfall settle - < bricks.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSettle(cmd.Context(), inputArg(args), cmd.InOrStdin(), cmd.OutOrStdout(), output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached snapshot exists")

	return cmd
}

func (c *CLI) runSettle(ctx context.Context, input string, stdin io.Reader, stdout io.Writer, output string, noCache, refresh bool) error {
	bricks, err := readInput(ctx, input, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	settled, cached, err := runner.SettleSnapshot(ctx, pipeline.Options{
		Bricks:  bricks,
		Refresh: refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("Settled snapshot", "bricks", len(settled), "cached", cached)

	if output == "" {
		var buf bytes.Buffer
		if err := bio.WriteBricks(&buf, settled); err != nil {
			return err
		}
		_, err := stdout.Write(buf.Bytes())
		return err
	}

	if err := bio.ExportBricks(output, settled); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Settled %d bricks", len(settled))
	printFile(output)
	if filepath.Ext(output) != ".json" {
		printNextStep("Analyze it", "brickfall analyze "+output)
	}
	return nil
}
