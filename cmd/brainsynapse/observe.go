package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kiddbin/brainsynapse/internal/observer"
)

// observationInput is the on-the-wire shape accepted by `observe`: one
// {type, data} pair per JSONL line (or JSON array element), matching
// Observation minus the id/timestamp the Observer assigns itself.
type observationInput struct {
	Type observer.Type          `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func (c *cli) observeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "observe [file]",
		Short: "Record one or more observations, then run batch instinct promotion",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.eng.Observer == nil {
				return fmt.Errorf("observe: the Observer is disabled (features.enableObserver=false)")
			}

			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("observe: %w", err)
				}
				defer f.Close()
				r = f
			}

			inputs, err := parseObservationInputs(r)
			if err != nil {
				return fmt.Errorf("observe: %w", err)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("observe: no observations supplied")
			}

			for _, in := range inputs {
				if err := c.eng.Observer.Record(in.Type, in.Data); err != nil {
					return fmt.Errorf("observe: record: %w", err)
				}
			}

			promoted := c.eng.Observer.BatchAnalyze(c.eng.Store)
			if err := c.eng.Store.Persist(); err != nil {
				return fmt.Errorf("observe: persist: %w", err)
			}

			result := struct {
				Recorded int `json:"recorded"`
				Promoted int `json:"promoted"`
			}{len(inputs), promoted}
			if c.jsonOutput {
				return printJSON(result)
			}
			fmt.Printf("recorded %d observation(s), promoted %d instinct(s)\n", result.Recorded, result.Promoted)
			return nil
		},
	}
}

// parseObservationInputs accepts either a JSON array of observationInput or
// newline-delimited JSON objects, one per line.
func parseObservationInputs(r io.Reader) ([]observationInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var arr []observationInput
		if err := json.Unmarshal([]byte(trimmed), &arr); err != nil {
			return nil, fmt.Errorf("parse observation array: %w", err)
		}
		return arr, nil
	}

	var out []observationInput
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var in observationInput
		if err := json.Unmarshal([]byte(line), &in); err != nil {
			return nil, fmt.Errorf("parse observation line %q: %w", line, err)
		}
		out = append(out, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
