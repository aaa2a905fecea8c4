package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sky-flux/mastery/itemlog"
)

func newItemsCmd(a *app) *cobra.Command {
	var (
		data   string
		filter bool
	)
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Summarise a multi-item response log",
		Long: `Items reads rows of (learner, item, response) or (learner, item, response,
effort), optionally drops items with accuracy at most 1% or at least 99%,
and reports how many distinct response patterns the learners form.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(data)
			if err != nil {
				return err
			}
			defer f.Close()
			recs, err := itemlog.ReadRecords(f)
			if err != nil {
				return err
			}

			var invalid []int64
			if filter {
				invalid = itemlog.InvalidItems(recs)
				a.logger.Info("filtered items", "invalid", invalid)
			}
			d := itemlog.Densify(recs, invalid)
			c, err := itemlog.Collapse(d)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "learners: %d\n", len(d.Learners))
			fmt.Fprintf(w, "items: %d (%d dropped)\n", len(d.Items), len(invalid))
			fmt.Fprintf(w, "logs: %d\n", len(d.Logs))
			fmt.Fprintf(w, "patterns: %d\n", len(c.Keys))
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "item log file")
	cmd.Flags().BoolVar(&filter, "filter", true, "drop items answered almost always right or wrong")
	cmd.MarkFlagRequired("data")
	return cmd
}
