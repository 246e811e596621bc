package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"logalizer/internal/graph"
	"logalizer/internal/history"

	"github.com/spf13/cobra"
)

func historyCmd(a *app) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent translation runs recorded in PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.HistoryEnabled() {
				return errors.New("history requires DATABASE_URL")
			}
			ctx, cancel := setupContext()
			defer cancel()

			store, err := history.Open(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}

			runs, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeRunsJSON(cmd.OutOrStdout(), runs)
			}
			return writeRunsTable(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")

	return cmd
}

func writeRunsJSON(w io.Writer, runs []history.Run) error {
	if runs == nil {
		runs = []history.Run{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(runs); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func writeRunsTable(w io.Writer, runs []history.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTATUS\tSTARTED\tINPUT\tREAD\tEMITTED\tPAIR ERRORS\tDURATION")
	for _, r := range runs {
		status := "ok"
		if r.Failed() {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID,
			status,
			r.StartedAt.Local().Format(time.DateTime),
			r.Input,
			r.LinesRead,
			r.LinesEmitted,
			r.PairErrors,
			r.Duration,
		)
	}
	return tw.Flush()
}

func graphCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graph <run-id>",
		Short: "Print the sequence of a run published to Neo4j",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.GraphEnabled() {
				return errors.New("graph requires NEO4J_URI")
			}
			ctx, cancel := setupContext()
			defer cancel()

			drv, err := graph.Connect(ctx, a.cfg.Neo4jURI, a.cfg.Neo4jUser, a.cfg.Neo4jPassword)
			if err != nil {
				return err
			}
			defer drv.Close(ctx)

			q := graph.NewQuerier(drv)
			participants, err := q.Participants(ctx, args[0])
			if err != nil {
				return err
			}
			msgs, err := q.Messages(ctx, args[0])
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				return fmt.Errorf("no messages published for run %s", args[0])
			}
			writeSequence(cmd.OutOrStdout(), participants, msgs)
			return nil
		},
	}
}

func writeSequence(w io.Writer, participants []string, msgs []graph.Message) {
	for _, p := range participants {
		fmt.Fprintf(w, "participant %s\n", participantName(p))
	}
	for _, m := range msgs {
		if m.Label == "" {
			fmt.Fprintf(w, "%s -> %s\n", participantName(m.From), participantName(m.To))
			continue
		}
		fmt.Fprintf(w, "%s -> %s : %s\n", participantName(m.From), participantName(m.To), m.Label)
	}
}

func participantName(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
