package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) latentStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latent-stats",
		Short: "Summarize the cold (latent) store",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := c.eng.Store.LatentStats()
			return printJSON(struct {
				TotalLatent    int     `json:"total_latent"`
				OldestArchive  int64   `json:"oldest_archive"`
				NewestArchive  int64   `json:"newest_archive"`
				AverageAgeDays float64 `json:"average_age_days"`
			}{stats.TotalLatent, stats.OldestArchive, stats.NewestArchive, stats.AverageAgeDays})
		},
	}
}

func (c *cli) forgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Run apply_LTD and persist the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.eng.Store.ApplyLTD()
			if err := c.eng.Store.Persist(); err != nil {
				return fmt.Errorf("forget: persist: %w", err)
			}
			fmt.Println("applied LTD decay and persisted the store")
			return nil
		},
	}
}
