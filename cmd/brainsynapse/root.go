package main

import (
	"github.com/spf13/cobra"

	"github.com/kiddbin/brainsynapse/internal/config"
	"github.com/kiddbin/brainsynapse/internal/engine"
	"github.com/kiddbin/brainsynapse/internal/logging"
)

// cli holds the shared state for every subcommand: the resolved config, the
// one Engine built per invocation (per §9's single-owned-store design note),
// and the output mode flags.
type cli struct {
	configPath string
	logLevel   string
	jsonOutput bool

	eng *engine.Engine
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "brainsynapse",
		Short: "Brain Synapse — an agent-local mini-brain memory engine",
		Long: "Brain Synapse consumes append-only daily interaction logs and exposes a\n" +
			"keyword-plus-semantic associative recall service backed by weighted,\n" +
			"self-reinforcing concept synapses.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Init("", c.logLevel)

			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}

			eng, err := engine.New(cfg)
			if err != nil {
				return err
			}
			c.eng = eng
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "brainsynapse.yaml", "path to the YAML config file (ignored if absent)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "zerolog level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "emit machine-readable JSON instead of a human-readable table")

	root.AddCommand(
		c.distillCmd(),
		c.recallCmd(),
		c.deepRecallCmd(),
		c.latentStatsCmd(),
		c.forgetCmd(),
		c.pinExpCmd(),
		c.memorizeCmd(),
		c.getPinnedCmd(),
		c.getTopConceptsCmd(),
		c.observeCmd(),
	)

	return root
}
