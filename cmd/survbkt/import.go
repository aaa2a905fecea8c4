package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sky-flux/mastery/eventlog"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		data        string
		db          string
		maxLearners int
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a flat-file event log in a SQLite database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			f, err := os.Open(data)
			if err != nil {
				return err
			}
			defer f.Close()
			events, err := eventlog.ReadFlatFile(f, eventlog.ReadOptions{MaxLearners: maxLearners})
			if err != nil {
				return err
			}

			store, err := eventlog.OpenStore(ctx, db)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := store.ImportEvents(ctx, data, events)
			if err != nil {
				return err
			}
			a.logger.Info("imported", "batch", b.ID, "events", b.Events, "db", db)
			fmt.Fprintln(cmd.OutOrStdout(), b.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&data, "data", "", "flat-file event log")
	f.StringVar(&db, "db", "", "SQLite event store")
	f.IntVar(&maxLearners, "max-learners", 0, "read at most this many learners")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("db")
	return cmd
}
