package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwtools/dwcli/internal/display"
	"github.com/dwtools/dwcli/internal/filter"
	"github.com/dwtools/dwcli/internal/platform"
)

// docSelector carries the mutually exclusive document-selection inputs
type docSelector struct {
	id     string
	query  string
	filter string
	all    bool
}

// addSelectorFlags registers the selection flags on a document command.
// allowAll controls whether --all is offered (update must target one
// document and never offers it).
func (sel *docSelector) addSelectorFlags(cmd *cobra.Command, allowAll bool) {
	cmd.Flags().StringVarP(&sel.id, "id", "i", "", "Document id")
	cmd.Flags().StringVarP(&sel.query, "query", "q", "", "Server query, e.g. \"SERIAL_NO = [X]\"")
	cmd.Flags().StringVarP(&sel.filter, "filter", "f", "", "Client predicate, e.g. \"fields['STATUS'] == 'Open'\" (fetches the whole cabinet)")
	if allowAll {
		cmd.Flags().BoolVar(&sel.all, "all", false, "Select every document in the cabinet")
	}
}

// validate enforces that exactly one selector was supplied
func (sel *docSelector) validate() error {
	count := 0
	for _, set := range []bool{sel.id != "", sel.query != "", sel.filter != "", sel.all} {
		if set {
			count++
		}
	}
	if count == 0 {
		return fmt.Errorf("document selection required. Use --id, --query, --filter, or --all")
	}
	if count > 1 {
		return fmt.Errorf("only one of --id, --query, --filter, or --all may be used")
	}
	return nil
}

// resolveCabinet looks up the cabinet named by --cabinet. Ambiguous names
// resolve to the first match with a warning.
func (app *App) resolveCabinet(ctx context.Context, svc *platform.Service) (*platform.Cabinet, error) {
	if app.cfg.Cabinet == "" {
		return nil, fmt.Errorf("cabinet name required. Use --cabinet")
	}
	return svc.FindCabinet(ctx, app.cfg.Cabinet)
}

// resolveDocuments materializes the selected document set. The filter and
// --all paths fetch the entire cabinet first; a spinner marks them as the
// expensive paths they are.
func resolveDocuments(ctx context.Context, svc *platform.Service, cabinetID string, sel *docSelector) ([]platform.DocumentRecord, error) {
	if err := sel.validate(); err != nil {
		return nil, err
	}

	switch {
	case sel.id != "":
		record, err := svc.Get(ctx, cabinetID, sel.id)
		if err != nil {
			return nil, err
		}
		return []platform.DocumentRecord{*record}, nil

	case sel.query != "":
		conditions, err := platform.ParseQuery(sel.query)
		if err != nil {
			return nil, err
		}
		return svc.Search(ctx, cabinetID, conditions)

	case sel.filter != "":
		predicate, err := filter.Compile(sel.filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}

		records, err := fetchAll(ctx, svc, cabinetID)
		if err != nil {
			return nil, err
		}

		matched := make([]platform.DocumentRecord, 0, len(records))
		for _, rec := range records {
			if predicate.Eval(rec.Row) {
				matched = append(matched, rec)
			}
		}
		return matched, nil

	default: // --all
		return fetchAll(ctx, svc, cabinetID)
	}
}

// fetchAll buffers the whole cabinet with a progress spinner
func fetchAll(ctx context.Context, svc *platform.Service, cabinetID string) ([]platform.DocumentRecord, error) {
	sp := display.NewSpinner("Fetching all documents (this can take a while)...")
	sp.Start()
	records, err := svc.ListAll(ctx, cabinetID)
	sp.Stop()
	return records, err
}

// requireSingle guards single-target operations against multi-document
// selections.
func requireSingle(records []platform.DocumentRecord, operation string) (*platform.DocumentRecord, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no document matched; %s needs exactly one", operation)
	}
	if len(records) > 1 {
		return nil, fmt.Errorf("%d documents matched; %s needs exactly one", len(records), operation)
	}
	return &records[0], nil
}
