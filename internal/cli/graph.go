package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/cascade"
	"github.com/matzehuels/brickfall/pkg/pipeline"
	"github.com/matzehuels/brickfall/pkg/render"
	"github.com/matzehuels/brickfall/pkg/render/dot"
)

// graphOpts holds the flags of the graph command.
type graphOpts struct {
	format   string
	output   string
	detailed bool
	remove   int
	noCache  bool
	scale    float64
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: render.FormatDOT, remove: -1, scale: 2}

	cmd := &cobra.Command{
		Use:   "graph [snapshot]",
		Short: "Export the support graph as DOT, SVG, PDF, or PNG",
		Long: `Export the support graph of a settled snapshot.

Each brick is a node with an edge to every brick it rests on; bricks resting
directly on the floor point at a floor node. Safe bricks are highlighted.
With --remove, the bricks that fall when the given brick is taken out are
marked as well.

SVG output uses Graphviz (built in). PDF and PNG additionally require
rsvg-convert from librsvg.`,
		Example: `  brickfall graph bricks.txt > support.dot
  brickfall graph -f svg --detailed -o support.svg bricks.txt
  brickfall graph -f png --remove 0 -o cascade.png bricks.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := render.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), inputArg(args), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, pdf, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show coordinates and cascade sizes in node labels")
	cmd.Flags().IntVar(&opts.remove, "remove", opts.remove, "highlight the cascade caused by removing this brick")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input string, stdin io.Reader, stdout, stderr io.Writer, opts graphOpts) error {
	bricks, err := readInput(ctx, input, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeline.Options{
		Bricks:  bricks,
		Workers: c.workers(0),
		TTL:     c.Config.Cache.TTL.Duration,
		Logger:  c.Logger,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	dotOpts := dot.Options{Detailed: opts.detailed}
	if opts.remove >= 0 {
		id := brick.ID(opts.remove)
		falling, err := cascade.New(result.Graph).Fall(id)
		if err != nil {
			return err
		}
		dotOpts.Highlight = true
		dotOpts.Removed = id
		dotOpts.Falling = falling
	}

	var spinner *Spinner
	if opts.format != render.FormatDOT {
		spinner = newSpinner(ctx, stderr, fmt.Sprintf("Rendering %s...", opts.format))
		spinner.Start()
	}
	data, err := renderGraph(ctx, dot.ToDOT(result.Report, dotOpts), opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Rendering failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debugf("Generated %s: %d bytes", opts.format, len(data))

	if err := writeOutput(opts.output, stdout, data); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	if opts.output != "" {
		printSuccess("Support graph written")
		printFile(opts.output)
	}
	return nil
}

// renderGraph converts DOT source to the requested format.
func renderGraph(ctx context.Context, src string, opts graphOpts) ([]byte, error) {
	if opts.format == render.FormatDOT {
		return []byte(src), nil
	}
	svg, err := dot.RenderSVG(ctx, src)
	if err != nil {
		return nil, err
	}
	switch opts.format {
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, opts.scale)
	}
	return svg, nil
}
