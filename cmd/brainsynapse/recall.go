package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiddbin/brainsynapse/internal/recall"
)

func (c *cli) recallCmd() *cobra.Command {
	var deep bool

	cmd := &cobra.Command{
		Use:   "recall <query>",
		Short: "Run the recall pipeline and emit a JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := c.eng.Recall.Recall(cmd.Context(), args[0], recall.Options{Deep: deep})
			return printJSON(resp)
		},
	}

	cmd.Flags().BoolVarP(&deep, "deep", "d", false, "also search cold storage and revive matches")
	return cmd
}

func (c *cli) deepRecallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deep-recall <query>",
		Short: "Run deep_recall standalone against the cold store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const defaultDeepRecallLimit = 5
			result := c.eng.Store.DeepRecall([]string{args[0]}, defaultDeepRecallLimit)
			if err := c.eng.Store.Persist(); err != nil {
				return fmt.Errorf("deep-recall: persist: %w", err)
			}
			return printJSON(result)
		},
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
