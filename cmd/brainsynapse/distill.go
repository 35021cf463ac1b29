package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) distillCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "distill",
		Short: "Ingest un-distilled daily logs into the synapse store",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.eng.Distill.Run(cmd.Context(), force)
			if err != nil {
				return fmt.Errorf("distill: %w", err)
			}
			fmt.Println(result.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "include today's log in the batch")
	return cmd
}
