package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newUpdateCmd creates the update command
func (app *App) newUpdateCmd() *cobra.Command {
	sel := &docSelector{}
	var fieldsJSON string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update index fields of exactly one document",
		Long: `Update index fields of exactly one document.

The selection must resolve to a single document; anything else halts
before the update endpoint is called. --fields takes a JSON object mapping
field names to values; single quotes are accepted in place of double
quotes for shell convenience.

Examples:
  dwcli update -c Invoices -i 42 --fields "{'STATUS': 'Paid'}"
  dwcli update -c Invoices -q "SERIAL_NO = [X123]" --fields "{'STATUS': 'Paid'}"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fieldsJSON == "" {
				return fmt.Errorf("field update required. Use --fields")
			}
			fields, err := parseRelaxedFields(fieldsJSON)
			if err != nil {
				return err
			}

			svc, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}

			cabinet, err := app.resolveCabinet(cmd.Context(), svc)
			if err != nil {
				return err
			}

			records, err := resolveDocuments(cmd.Context(), svc, cabinet.ID, sel)
			if err != nil {
				return err
			}

			record, err := requireSingle(records, "update")
			if err != nil {
				return err
			}

			if err := svc.UpdateFields(cmd.Context(), cabinet.ID, record.ID, fields); err != nil {
				return err
			}

			fmt.Printf("Updated document %s (%d fields).\n", record.ID, len(fields))
			return nil
		},
	}

	cmd.Flags().StringVarP(&app.cfg.Cabinet, "cabinet", "c", "", "Cabinet name")
	cmd.Flags().StringVar(&fieldsJSON, "fields", "", "Field update as JSON, e.g. \"{'STATUS': 'Paid'}\"")
	sel.addSelectorFlags(cmd, false)

	return cmd
}

// parseRelaxedFields parses the update body, accepting single quotes in
// place of double quotes when the input carries none of the latter.
func parseRelaxedFields(input string) (map[string]string, error) {
	normalized := input
	if strings.Contains(normalized, "'") && !strings.Contains(normalized, "\"") {
		normalized = strings.ReplaceAll(normalized, "'", "\"")
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(normalized), &fields); err != nil {
		return nil, fmt.Errorf("invalid update JSON %q: %w", input, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("update JSON %q names no fields", input)
	}
	return fields, nil
}
