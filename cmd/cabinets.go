package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwtools/dwcli/internal/display"
)

// newCabinetsCmd creates the lscabinets command
func (app *App) newCabinetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lscabinets",
		Short: "List the file cabinets visible to the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}

			cabinets, err := svc.AllCabinets(cmd.Context())
			if err != nil {
				return err
			}

			if app.cfg.Render {
				if err := display.InitRenderer(); err == nil {
					fmt.Print(display.RenderMarkdown(display.CabinetsTable(cabinets)))
					return nil
				}
			}

			for _, c := range cabinets {
				fmt.Printf("%s\t%s\n", c.ID, c.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&app.cfg.Render, "render", "r", false, "Render the listing as a formatted table")

	return cmd
}
