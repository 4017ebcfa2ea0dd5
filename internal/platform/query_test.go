package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/dwtools/dwcli/internal/api"
	"github.com/dwtools/dwcli/internal/auth"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    []Condition
		wantErr bool
	}{
		{
			name:  "single condition",
			query: "SERIAL_NO = [X123]",
			want:  []Condition{{DBName: "SERIAL_NO", Value: []string{"X123"}}},
		},
		{
			name:  "two conditions or-combined",
			query: "A = [1] | B = [2]",
			want: []Condition{
				{DBName: "A", Value: []string{"1"}},
				{DBName: "B", Value: []string{"2"}},
			},
		},
		{
			name:  "whitespace around equals ignored",
			query: "STATUS=[Open]",
			want:  []Condition{{DBName: "STATUS", Value: []string{"Open"}}},
		},
		{
			name:  "value with inner spaces",
			query: "NAME = [John Smith]",
			want:  []Condition{{DBName: "NAME", Value: []string{"John Smith"}}},
		},
		{
			name:    "missing brackets",
			query:   "SERIAL_NO = X123",
			wantErr: true,
		},
		{
			name:    "missing equals",
			query:   "SERIAL_NO [X123]",
			wantErr: true,
		},
		{
			name:    "empty field name",
			query:   "= [X123]",
			wantErr: true,
		},
		{
			name:    "empty query",
			query:   "   ",
			wantErr: true,
		},
		{
			name:    "one bad term poisons the whole query",
			query:   "A = [1] | B = 2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuery(tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseQuery(%q) expected error, got %+v", tt.query, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuery(%q) unexpected error: %v", tt.query, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(auth.NewSession(server.URL, "sid=test"), api.RetryPolicy{MaxAttempts: 1})
	return NewService(client, "")
}

func TestSearchStripsLinkPrefix(t *testing.T) {
	var linkRequested bool

	mux := http.NewServeMux()
	mux.HandleFunc("/DocuWare/Platform/FileCabinets/CAB1/Query/DialogExpressionLink", func(w http.ResponseWriter, r *http.Request) {
		var q expressionQuery
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			t.Errorf("query body did not decode: %v", err)
		}
		if q.Operation != "Or" {
			t.Errorf("query operation = %q, want Or", q.Operation)
		}
		if len(q.Condition) != 1 || q.Condition[0].DBName != "SERIAL_NO" {
			t.Errorf("query conditions = %+v, want one SERIAL_NO term", q.Condition)
		}
		// The platform answers with one junk character before the link
		json.NewEncoder(w).Encode("/DocuWare/Platform/FileCabinets/CAB1/Query/Result/abc123")
	})
	mux.HandleFunc("/DocuWare/Platform/FileCabinets/CAB1/Query/Result/abc123", func(w http.ResponseWriter, r *http.Request) {
		linkRequested = true
		json.NewEncoder(w).Encode(map[string]interface{}{
			"Count":   map[string]int{"Value": 1},
			"Headers": []string{"DWDOCID", "SERIAL_NO"},
			"Rows": []map[string]interface{}{
				{"Items": []interface{}{float64(42), "X123"}},
			},
		})
	})

	svc := newTestService(t, mux)
	records, err := svc.Search(context.Background(), "CAB1", []Condition{{DBName: "SERIAL_NO", Value: []string{"X123"}}})
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if !linkRequested {
		t.Fatal("the stripped result link was never fetched")
	}
	if len(records) != 1 {
		t.Fatalf("Search() returned %d records, want 1", len(records))
	}
	if records[0].ID != "42" {
		t.Errorf("record id = %q, want %q", records[0].ID, "42")
	}
	if records[0].Row["SERIAL_NO"] != "X123" {
		t.Errorf("record SERIAL_NO = %q, want %q", records[0].Row["SERIAL_NO"], "X123")
	}
	if records[0].CabinetID != "CAB1" {
		t.Errorf("record cabinet = %q, want CAB1", records[0].CabinetID)
	}
}

func TestSearchEmptyCountShortCircuits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/DocuWare/Platform/FileCabinets/CAB1/Query/DialogExpressionLink", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode("/DocuWare/Platform/FileCabinets/CAB1/Query/Result/empty")
	})
	mux.HandleFunc("/DocuWare/Platform/FileCabinets/CAB1/Query/Result/empty", func(w http.ResponseWriter, r *http.Request) {
		// Empty results carry no headers at all
		json.NewEncoder(w).Encode(map[string]interface{}{
			"Count": map[string]int{"Value": 0},
		})
	})

	svc := newTestService(t, mux)
	records, err := svc.Search(context.Background(), "CAB1", []Condition{{DBName: "A", Value: []string{"x"}}})
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if records == nil {
		t.Fatal("Search() returned nil, want empty slice")
	}
	if len(records) != 0 {
		t.Errorf("Search() returned %d records, want 0", len(records))
	}
}

func TestSearchRejectsShortLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/DocuWare/Platform/FileCabinets/CAB1/Query/DialogExpressionLink", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode("/")
	})

	svc := newTestService(t, mux)
	_, err := svc.Search(context.Background(), "CAB1", []Condition{{DBName: "A", Value: []string{"x"}}})
	if err == nil {
		t.Fatal("Search() expected error for a degenerate expression link")
	}
}
