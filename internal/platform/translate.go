package platform

// recordsFromTable zips each row's item array against the header row and
// reads the record id out of the configured id field. Rows shorter than
// the header row leave the trailing fields unset.
func (s *Service) recordsFromTable(result *documentsResult, cabinetID string) []DocumentRecord {
	records := make([]DocumentRecord, 0, len(result.Rows))

	for _, row := range result.Rows {
		fields := make(map[string]string, len(result.Headers))
		for i, name := range result.Headers {
			if i < len(row.Items) {
				fields[name] = itemString(row.Items[i])
			}
		}
		records = append(records, DocumentRecord{
			ID:        fields[s.idField],
			CabinetID: cabinetID,
			Row:       fields,
		})
	}

	return records
}

// recordFromFields folds a per-document field list into the same record
// shape the tabular translator produces.
func (s *Service) recordFromFields(result *documentResult, cabinetID string) DocumentRecord {
	fields := make(map[string]string, len(result.Fields))
	for _, f := range result.Fields {
		fields[f.FieldName] = itemString(f.Item)
	}

	return DocumentRecord{
		ID:        fields[s.idField],
		CabinetID: cabinetID,
		Row:       fields,
	}
}
