package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sky-flux/mastery"
	"github.com/sky-flux/mastery/eventlog"
	"github.com/sky-flux/mastery/sampler"
)

func newSimulateCmd(a *app) *cobra.Command {
	var (
		theta = mastery.Theta{G: 0.2, S: 0.1, Pi: 0.4, L: 0.3, H0: 0.3, H1: 0.1}
		cfg   mastery.SimulationConfig
		seed  uint64
		out   string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a synthetic event log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := theta.Validate(); err != nil {
				return err
			}
			if seed == 0 {
				seed = 42
			}
			events := mastery.Simulate(theta, cfg, sampler.NewSource(seed))
			a.logger.Info("simulated", "events", len(events), "theta", theta)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return eventlog.WriteFlatFile(w, events)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&theta.G, "g", theta.G, "guess probability")
	f.Float64Var(&theta.S, "s", theta.S, "slip probability")
	f.Float64Var(&theta.Pi, "pi", theta.Pi, "initial mastery probability")
	f.Float64Var(&theta.L, "l", theta.L, "learning probability")
	f.Float64Var(&theta.H0, "h0", theta.H0, "hazard after an incorrect response")
	f.Float64Var(&theta.H1, "h1", theta.H1, "hazard after a correct response")
	f.IntVar(&cfg.Learners, "learners", 0, "number of learners (default 250)")
	f.IntVar(&cfg.MaxLen, "max-len", 0, "maximum steps per learner (default 5)")
	f.Uint64Var(&seed, "seed", 0, "random seed (default 42)")
	f.StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}
