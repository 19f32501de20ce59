package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/graphconsole/internal/console"
	"github.com/agenthands/graphconsole/internal/query"
)

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Execute a query and print the result",
	Example: `  cypher run 'RETURN 1 AS x'
  cypher run -d local -p name='"Alice"' 'MATCH (p:Person {name: $name}) RETURN p'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseParams(paramFlags)
		if err != nil {
			return err
		}

		result, err := manager.Execute(cmd.Context(), dataSourceName, args[0], params)
		if err != nil {
			return err
		}
		return console.WriteTable(cmd.OutOrStdout(), result)
	},
}

// parseParams turns name=value pairs into query parameters. Values that are
// valid JSON are decoded, anything else is taken as a string.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected name=value", pair)
		}

		var value any
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&value); err != nil || dec.More() {
			value = raw
		}
		params[strings.TrimSpace(name)] = value
	}
	return query.NormalizeParams(params), nil
}
