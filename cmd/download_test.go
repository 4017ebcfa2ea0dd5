package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDownloadByID(t *testing.T) {
	_, server := newFakePlatform(t)
	outDir := filepath.Join(t.TempDir(), "out")

	_, _, err := runCommand(t,
		"download", "-e", server.URL, "-x", "sid=1", "-c", "Invoices",
		"-i", "42", "-o", outDir, "-n", "invoice")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "invoice_0.pdf"))
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("file content = %q, want the served bytes", data)
	}
}

func TestDownloadRequiresOutputDir(t *testing.T) {
	_, server := newFakePlatform(t)

	_, _, err := runCommand(t,
		"download", "-e", server.URL, "-x", "sid=1", "-c", "Invoices", "-i", "42", "-n", "invoice")
	if err == nil {
		t.Fatal("download without --output-dir should fail")
	}
	if !strings.Contains(err.Error(), "--output-dir") {
		t.Errorf("error = %q, want --output-dir hint", err)
	}
}

func TestDownloadRequiresPrefix(t *testing.T) {
	_, server := newFakePlatform(t)

	_, _, err := runCommand(t,
		"download", "-e", server.URL, "-x", "sid=1", "-c", "Invoices", "-i", "42", "-o", t.TempDir())
	if err == nil {
		t.Fatal("download without --prefix should fail")
	}
	if !strings.Contains(err.Error(), "--prefix") {
		t.Errorf("error = %q, want --prefix hint", err)
	}
}
