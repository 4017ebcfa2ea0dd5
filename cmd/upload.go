package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newUploadCmd creates the upload command
func (app *App) newUploadCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a file into a cabinet",
		Long: `Upload a file into a cabinet as a new document.

Examples:
  dwcli upload -c Invoices --file ./invoice.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("source file required. Use --file")
			}

			svc, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}

			cabinet, err := app.resolveCabinet(cmd.Context(), svc)
			if err != nil {
				return err
			}

			file, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", filePath, err)
			}
			defer file.Close()

			if err := svc.Upload(cmd.Context(), cabinet.ID, filePath, file); err != nil {
				return err
			}

			fmt.Printf("Uploaded %s to cabinet %s.\n", filePath, cabinet.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&app.cfg.Cabinet, "cabinet", "c", "", "Cabinet name")
	cmd.Flags().StringVar(&filePath, "file", "", "File to upload")

	return cmd
}
