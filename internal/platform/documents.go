package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/dwtools/dwcli/internal/constants"
	"github.com/dwtools/dwcli/internal/logging"
)

// ListAll fetches every document of a cabinet through the tabular listing,
// walking fixed-size offset windows until an empty row set comes back.
// This is the most expensive retrieval path on large cabinets.
func (s *Service) ListAll(ctx context.Context, cabinetID string) ([]DocumentRecord, error) {
	var records []DocumentRecord

	for start := 0; ; start += s.pageSize {
		path := fmt.Sprintf("%s/FileCabinets/%s/Documents?count=%d&start=%d",
			constants.PlatformPrefix, cabinetID, s.pageSize, start)

		body, err := s.client.Get(ctx, path)
		if err != nil {
			return nil, err
		}

		var result documentsResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("failed to parse documents response: %w", err)
		}

		if len(result.Rows) == 0 {
			break
		}
		records = append(records, s.recordsFromTable(&result, cabinetID)...)
	}

	logging.Debug("cabinet listing complete", logging.Fields{
		"cabinet": cabinetID,
		"records": len(records),
	})
	return records, nil
}

// Get fetches one document by id through the per-document field list
func (s *Service) Get(ctx context.Context, cabinetID, docID string) (*DocumentRecord, error) {
	path := fmt.Sprintf("%s/FileCabinets/%s/Documents/%s", constants.PlatformPrefix, cabinetID, docID)
	body, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var result documentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse document response: %w", err)
	}

	record := s.recordFromFields(&result, cabinetID)
	if record.ID == "" {
		record.ID = docID
	}
	return &record, nil
}

// UpdateFields pushes a field update to one document
func (s *Service) UpdateFields(ctx context.Context, cabinetID, docID string, fields map[string]string) error {
	update := fieldsUpdate{}
	for name, value := range fields {
		update.Field = append(update.Field, documentField{FieldName: name, Item: value})
	}

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal field update: %w", err)
	}

	path := fmt.Sprintf("%s/FileCabinets/%s/Documents/%s/Fields", constants.PlatformPrefix, cabinetID, docID)
	if _, err := s.client.Post(ctx, path, body, "application/json"); err != nil {
		return err
	}

	logging.Info("document updated", logging.Fields{"cabinet": cabinetID, "document": docID, "fields": len(fields)})
	return nil
}

// Download returns the document's file content as a stream. The caller
// must close it.
func (s *Service) Download(ctx context.Context, cabinetID, docID string) (io.ReadCloser, error) {
	path := fmt.Sprintf("%s/FileCabinets/%s/Documents/%s/FileDownload?targetFileType=PDF&keepAnnotations=true",
		constants.PlatformPrefix, cabinetID, docID)
	return s.client.GetStream(ctx, path)
}

// Upload stores a new document from the given reader under the file's
// base name, as a multipart upload.
func (s *Service) Upload(ctx context.Context, cabinetID, fileName string, content io.Reader) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read upload source: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}

	path := fmt.Sprintf("%s/FileCabinets/%s/Documents", constants.PlatformPrefix, cabinetID)
	if _, err := s.client.Post(ctx, path, body.Bytes(), w.FormDataContentType()); err != nil {
		return err
	}

	logging.Info("document uploaded", logging.Fields{"cabinet": cabinetID, "file": filepath.Base(fileName)})
	return nil
}
