package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwtools/dwcli/internal/display"
	"github.com/dwtools/dwcli/internal/platform"
)

// newGetCmd creates the get command
func (app *App) newGetCmd() *cobra.Command {
	sel := &docSelector{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print matching documents as JSON",
		Long: `Print matching documents as one JSON array of records.

Documents are selected by exactly one of --id, --query, --filter, or --all.
The --filter path fetches the entire cabinet before evaluating the
predicate and is the most expensive way to select documents.

Examples:
  dwcli get -c Invoices -i 42
  dwcli get -c Invoices -q "SERIAL_NO = [X123] | SERIAL_NO = [X124]"
  dwcli get -c Invoices -f "fields['STATUS'] == 'Open'" --render`,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if records == nil {
				records = []platform.DocumentRecord{}
			}

			if app.cfg.Render {
				if err := display.InitRenderer(); err == nil {
					fmt.Fprint(cmd.OutOrStdout(), display.RenderMarkdown(display.DocumentsTable(records, app.cfg.IDField)))
					return nil
				}
			}

			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode records: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&app.cfg.Cabinet, "cabinet", "c", "", "Cabinet name")
	cmd.Flags().BoolVarP(&app.cfg.Render, "render", "r", false, "Render the records as a formatted table")
	sel.addSelectorFlags(cmd, true)

	return cmd
}
