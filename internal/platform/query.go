package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dwtools/dwcli/internal/constants"
)

// ParseQuery converts the query DSL into condition terms. The grammar is
//
//	condition ('|' condition)*
//	condition := FIELD_NAME '=' '[' VALUE ']'
//
// with whitespace around '=' ignored. All terms are OR-combined; the DSL
// has no AND. A condition without brackets is unsupported.
func ParseQuery(query string) ([]Condition, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}

	var conditions []Condition
	for _, part := range strings.Split(query, "|") {
		name, value, found := strings.Cut(part, "=")
		if !found {
			return nil, fmt.Errorf("unsupported condition %q: expected FIELD = [VALUE]", strings.TrimSpace(part))
		}

		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || !strings.HasPrefix(value, "[") || !strings.HasSuffix(value, "]") {
			return nil, fmt.Errorf("unsupported condition %q: expected FIELD = [VALUE]", strings.TrimSpace(part))
		}

		conditions = append(conditions, Condition{
			DBName: name,
			Value:  []string{value[1 : len(value)-1]},
		})
	}

	return conditions, nil
}

// Search runs an OR-combined condition query server-side. The expression-
// link endpoint answers with a JSON string holding the result link,
// prefixed with one extra character that must be stripped before the link
// can be fetched (an undocumented quirk of the platform; do not "fix" it).
func (s *Service) Search(ctx context.Context, cabinetID string, conditions []Condition) ([]DocumentRecord, error) {
	query := expressionQuery{
		Condition: conditions,
		Operation: "Or",
		Count:     s.pageSize,
		Start:     0,
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	path := fmt.Sprintf("%s/FileCabinets/%s/Query/DialogExpressionLink", constants.PlatformPrefix, cabinetID)
	respBody, err := s.client.Post(ctx, path, body, "application/json")
	if err != nil {
		return nil, err
	}

	var link string
	if err := json.Unmarshal(respBody, &link); err != nil {
		return nil, fmt.Errorf("failed to parse expression link: %w", err)
	}
	if len(link) < 2 {
		return nil, fmt.Errorf("expression link too short: %q", link)
	}
	link = link[1:]

	resultBody, err := s.client.Get(ctx, link)
	if err != nil {
		return nil, err
	}

	var result documentsResult
	if err := json.Unmarshal(resultBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse query result: %w", err)
	}

	// An empty count short-circuits before the header row is touched;
	// empty results carry no item list to read field names from.
	if result.Count.Value == 0 || len(result.Rows) == 0 {
		return []DocumentRecord{}, nil
	}

	return s.recordsFromTable(&result, cabinetID), nil
}
