package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dwtools/dwcli/internal/display"
	"github.com/dwtools/dwcli/internal/platform"
)

// newDownloadCmd creates the download command
func (app *App) newDownloadCmd() *cobra.Command {
	sel := &docSelector{}
	var outputDir string
	var prefix string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download matching documents as PDF files",
		Long: `Download each matching document into the output folder.

Files are written sequentially as <prefix>_<n>.pdf, each stream closed
before the next begins.

Examples:
  dwcli download -c Invoices -q "STATUS = [Open]" -o ./out -n invoice
  dwcli download -c Invoices --all -o ./out -n invoice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				return fmt.Errorf("output folder required. Use --output-dir")
			}
			if prefix == "" {
				return fmt.Errorf("filename prefix required. Use --prefix")
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
			if len(records) == 0 {
				fmt.Println("No documents matched.")
				return nil
			}

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output folder: %w", err)
			}

			sp := display.NewSpinner(fmt.Sprintf("Downloading %d documents...", len(records)))
			sp.Start()
			defer sp.Stop()

			for i, record := range records {
				target := filepath.Join(outputDir, fmt.Sprintf("%s_%d.pdf", prefix, i))
				if err := downloadOne(cmd, svc, cabinet.ID, record.ID, target); err != nil {
					return err
				}
			}

			sp.Stop()
			fmt.Printf("Downloaded %d documents to %s.\n", len(records), outputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&app.cfg.Cabinet, "cabinet", "c", "", "Cabinet name")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Folder the files are written into")
	cmd.Flags().StringVarP(&prefix, "prefix", "n", "", "Filename prefix; files are named <prefix>_<n>.pdf")
	sel.addSelectorFlags(cmd, true)

	return cmd
}

// downloadOne streams a single document to disk and closes everything
// before returning, keeping the loop strictly sequential.
func downloadOne(cmd *cobra.Command, svc *platform.Service, cabinetID, docID, target string) error {
	stream, err := svc.Download(cmd.Context(), cabinetID, docID)
	if err != nil {
		return err
	}
	defer stream.Close()

	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(file, stream); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return file.Close()
}
