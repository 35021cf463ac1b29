package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (c *cli) pinExpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin-exp <kw>:<rule>",
		Short: "Upsert a pinned synapse record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, rule, ok := splitColonPair(args[0])
			if !ok {
				return fmt.Errorf("usage: pin-exp <kw>:<rule>")
			}
			c.eng.Store.Pin(kw, rule)
			return c.eng.Store.Persist()
		},
	}
}

func (c *cli) memorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "memorize <concept>:<content> | <concept> <content>",
		Short: "Insert a pinned explicit memory, bypassing term extraction",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var concept, content string
			switch len(args) {
			case 2:
				concept, content = args[0], args[1]
			default:
				var ok bool
				concept, content, ok = splitColonPair(args[0])
				if !ok {
					return fmt.Errorf("usage: memorize <concept>:<content> or memorize <concept> <content>")
				}
			}
			if strings.TrimSpace(concept) == "" || strings.TrimSpace(content) == "" {
				return fmt.Errorf("memorize: concept and content must be non-empty")
			}
			c.eng.Store.Memorize(concept, content, c.eng.Config.LTD.InitialWeight+1.5)
			return c.eng.Store.Persist()
		},
	}
}

func (c *cli) getPinnedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-pinned",
		Short: "Emit every pinned synapse record",
		RunE: func(cmd *cobra.Command, args []string) error {
			pinned := c.eng.Store.GetPinned()
			if c.jsonOutput {
				return printJSON(pinned)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Keyword", "Rule", "Weight"})
			for _, p := range pinned {
				table.Append([]string{p.Keyword, p.Rule, strconv.FormatFloat(p.Weight, 'f', 2, 64)})
			}
			table.Render()
			return nil
		},
	}
}

func (c *cli) getTopConceptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-top-concepts [n]",
		Short: "Emit the top-N concepts by weight (default 5)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 5
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed <= 0 {
					return fmt.Errorf("get-top-concepts: n must be a positive integer")
				}
				n = parsed
			}

			top := c.eng.Store.GetTopConcepts(n)
			if c.jsonOutput {
				return printJSON(top)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Concept", "Weight"})
			for _, v := range top {
				table.Append([]string{v.Concept, strconv.FormatFloat(v.Weight, 'f', 2, 64)})
			}
			table.Render()
			return nil
		},
	}
}

// splitColonPair splits "kw:rule" on the first colon. Reports ok=false for
// missing colon or an empty keyword/rule, matching §7's user-input-error
// taxonomy for pin-exp/memorize.
func splitColonPair(s string) (key, value string, ok bool) {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(s[:idx])
	value = strings.TrimSpace(s[idx+1:])
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}
