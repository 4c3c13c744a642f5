package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	swarmQueries "github.com/andrescamacho/swarm-go/internal/application/swarm/queries"
)

// NewRunsCommand creates the runs command with subcommands
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded simulation runs",
		Long: `Inspect simulation runs recorded in the database.

Runs are only kept across invocations when database.type points at a file
or a postgres server; the default in-memory sqlite forgets them on exit.
Journals require logging.journal to be enabled.

Examples:
  swarm runs list
  swarm runs logs sim-90x15-a3f8e2b1 --level warning --limit 50`,
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsLogsCommand())

	return cmd
}

func newRunsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.mediator.Send(a.context(context.Background()), &swarmQueries.ListRunsQuery{Limit: limit})
			if err != nil {
				return err
			}
			runs := resp.(*swarmQueries.ListRunsResponse).Runs
			if len(runs) == 0 {
				fmt.Println("No runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN ID\tSTATUS\tGRID\tAGENTS\tTICKS\tMERGES\tCREATED")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%d\t%s\n",
					run.ID,
					run.Status,
					run.Width, run.Height,
					run.Agents,
					run.Stats.Ticks,
					run.Stats.Merges,
					run.CreatedAt.Format("2006-01-02 15:04:05"),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs")

	return cmd
}

func newRunsLogsCommand() *cobra.Command {
	var (
		limit int
		level string
		scope string
	)

	cmd := &cobra.Command{
		Use:   "logs <run-id>",
		Short: "Show the journal of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			query := &swarmQueries.GetRunLogsQuery{RunID: args[0], Limit: limit}
			if level != "" {
				query.Level = &level
			}
			if scope != "" {
				query.Scope = &scope
			}

			resp, err := a.mediator.Send(a.context(context.Background()), query)
			if err != nil {
				return err
			}
			logs := resp.(*swarmQueries.GetRunLogsResponse)

			if len(logs.Entries) == 0 {
				fmt.Println("No logs found for run:", args[0])
				return nil
			}

			// Display oldest first
			for i := len(logs.Entries) - 1; i >= 0; i-- {
				entry := logs.Entries[i]
				fmt.Printf("[%s] [%s] [%s] %s\n",
					entry.Timestamp.Format("2006-01-02 15:04:05.000"),
					entry.Level,
					entry.Scope,
					entry.Message,
				)
			}

			levels := make([]string, 0, len(logs.Counts))
			for lvl := range logs.Counts {
				levels = append(levels, lvl)
			}
			sort.Strings(levels)
			fmt.Printf("\nRun %s (%s):", logs.Run.ID, logs.Run.Status)
			for _, lvl := range levels {
				fmt.Printf(" %s=%d", lvl, logs.Counts[lvl])
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of log entries")
	cmd.Flags().StringVar(&level, "level", "", "Filter by log level (debug, info, warning, error)")
	cmd.Flags().StringVar(&scope, "scope", "", "Filter by scope, e.g. agent-3")

	return cmd
}
