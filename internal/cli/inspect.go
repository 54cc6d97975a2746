package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickfall/pkg/cascade"
	"github.com/matzehuels/brickfall/pkg/pipeline"
	"github.com/matzehuels/brickfall/pkg/report"
)

// inspectCommand creates the interactive inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		noCache bool
		id      string
	)

	cmd := &cobra.Command{
		Use:   "inspect [snapshot]",
		Short: "Browse bricks and their cascades interactively",
		Long: `Browse the settled bricks of a snapshot in the terminal.

For the selected brick, shows what it rests on, what rests on it, and which
bricks fall if it is removed. With --report, a saved report is opened
instead of analyzing a snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var rep *report.Report
			if id != "" {
				st, err := c.openStore(ctx)
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				defer st.Close()
				if rep, err = st.Get(ctx, id); err != nil {
					return err
				}
			} else {
				bricks, err := readInput(ctx, inputArg(args), cmd.InOrStdin())
				if err != nil {
					return err
				}
				runner, err := c.newRunner(ctx, noCache)
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
				rep = result.Report
			}

			g, err := rep.Graph()
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewInspectModel(rep, cascade.New(g)), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&id, "report", "", "open a saved report by id")

	return cmd
}
