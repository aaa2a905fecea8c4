package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sky-flux/mastery"
	"github.com/sky-flux/mastery/eventlog"
	"github.com/sky-flux/mastery/sampler"
)

type estimateOptions struct {
	data        string
	db          string
	batch       string
	config      string
	maxIter     int
	seed        uint64
	strategy    string
	workers     int
	maxLearners int
	chainOut    string
}

func newEstimateCmd(a *app) *cobra.Command {
	var o estimateOptions
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate model parameters from an event log",
		Long: `Estimate runs the Gibbs sampler over a flat-file event log (--data) or a
batch stored with "survbkt import" (--db, optionally --batch; the latest
batch by default) and prints the point estimate with posterior summaries.

Flags override values from the --config run file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEstimate(cmd.Context(), a, cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.data, "data", "", "flat-file event log")
	f.StringVar(&o.db, "db", "", "SQLite event store")
	f.StringVar(&o.batch, "batch", "", "batch id in --db (default latest)")
	f.StringVar(&o.config, "config", "", "YAML run file")
	f.IntVar(&o.maxIter, "max-iter", 0, "Gibbs iterations (default 1000)")
	f.Uint64Var(&o.seed, "seed", 0, "random seed (default 42)")
	f.StringVar(&o.strategy, "strategy", "", "posterior strategy: fb or enum")
	f.IntVar(&o.workers, "workers", 0, "patterns estimated in parallel (default GOMAXPROCS)")
	f.IntVar(&o.maxLearners, "max-learners", 0, "read at most this many learners from --data")
	f.StringVar(&o.chainOut, "chain-out", "", "write the full chain as CSV to this file")
	cmd.MarkFlagsMutuallyExclusive("data", "db")
	cmd.MarkFlagsOneRequired("data", "db")
	return cmd
}

func runEstimate(ctx context.Context, a *app, cmd *cobra.Command, o estimateOptions) error {
	rc, err := LoadRunConfig(o.config)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("max-iter") {
		rc.MaxIter = o.maxIter
	}
	if flags.Changed("seed") {
		rc.Seed = o.seed
	}
	if flags.Changed("strategy") {
		rc.Strategy = o.strategy
	}
	if flags.Changed("workers") {
		rc.Workers = o.workers
	}

	events, err := loadEvents(ctx, o)
	if err != nil {
		return err
	}
	learners, err := mastery.BuildLearners(events)
	if err != nil {
		return err
	}
	start, err := rc.InitialTheta(learners)
	if err != nil {
		return err
	}

	cfg, err := rc.SamplerConfig()
	if err != nil {
		return err
	}
	cfg.Logger = a.logger
	cfg.Progress = func(p sampler.Progress) {
		a.logger.Info("progress", "iteration", p.Iteration, "of", p.MaxIter, "elapsed", p.Elapsed)
	}
	s, err := sampler.New(cfg)
	if err != nil {
		return err
	}

	res, err := s.Run(ctx, start, learners)
	if err != nil {
		if res != nil && o.chainOut != "" && res.Chain.Len() > 0 {
			if werr := writeChainFile(o.chainOut, res.Chain); werr != nil {
				return errors.Join(err, werr)
			}
		}
		if res != nil && sampler.IsCancelled(err) {
			if perr := reportTruncated(cmd.OutOrStdout(), res); perr != nil {
				a.logger.Warn("no estimate from truncated chain", "iterations", res.Chain.Len(), "error", perr)
			}
		}
		return err
	}
	if o.chainOut != "" {
		if err := writeChainFile(o.chainOut, res.Chain); err != nil {
			return err
		}
	}

	est, err := res.Chain.PointEstimate()
	if err != nil {
		return err
	}
	return printEstimate(cmd.OutOrStdout(), res, est, false)
}

// reportTruncated prints the estimate of a run cut short by cancellation.
func reportTruncated(w io.Writer, res *sampler.Result) error {
	est, err := res.Chain.PointEstimate()
	if err != nil {
		return err
	}
	return printEstimate(w, res, est, true)
}

func loadEvents(ctx context.Context, o estimateOptions) ([]mastery.Event, error) {
	if o.data != "" {
		f, err := os.Open(o.data)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return eventlog.ReadFlatFile(f, eventlog.ReadOptions{MaxLearners: o.maxLearners})
	}

	store, err := eventlog.OpenStore(ctx, o.db)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	batch := o.batch
	if batch == "" {
		b, err := store.LatestBatch(ctx)
		if err != nil {
			return nil, err
		}
		batch = b.ID
	}
	return store.LoadEvents(ctx, batch)
}

func printEstimate(w io.Writer, res *sampler.Result, est mastery.Theta, truncated bool) error {
	fmt.Fprintf(w, "run %s: %d learners, %d patterns, %d iterations (%s)",
		res.RunID, res.Learners, res.Patterns, res.Chain.Len(), res.Strategy)
	if truncated {
		fmt.Fprint(w, " TRUNCATED: run cancelled")
	}
	fmt.Fprint(w, "\n\n")

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "param\testimate\tmean\tsd\t2.5%\t97.5%")
	v := est.Vector()
	for p, s := range res.Chain.Summary() {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", s.Name, v[p], s.Mean, s.StdDev, s.Lower, s.Upper)
	}
	return tw.Flush()
}

func writeChainFile(path string, c *sampler.Chain) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeChain(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeChain writes one CSV row per sample, with a header row.
func writeChain(w io.Writer, c *sampler.Chain) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(mastery.ParamNames[:]); err != nil {
		return err
	}
	rec := make([]string, mastery.NumParams)
	for _, row := range c.Rows() {
		for p, v := range row {
			rec[p] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
