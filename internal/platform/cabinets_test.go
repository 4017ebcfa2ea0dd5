package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func cabinetFixture(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/DocuWare/Platform/Organizations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"Organization": []map[string]string{
				{"Id": "org-1", "Name": "Acme"},
				{"Id": "org-2", "Name": "Globex"},
			},
		})
	})
	mux.HandleFunc("/DocuWare/Platform/FileCabinets", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("orgid") {
		case "org-1":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"FileCabinet": []map[string]string{
					{"Id": "cab-1", "Name": "Invoices"},
					{"Id": "cab-2", "Name": "Contracts"},
				},
			})
		case "org-2":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"FileCabinet": []map[string]string{
					{"Id": "cab-3", "Name": "Invoices"},
				},
			})
		default:
			http.Error(w, "unknown org", http.StatusNotFound)
		}
	})
	return mux
}

func TestAllCabinets(t *testing.T) {
	svc := newTestService(t, cabinetFixture(t))

	cabinets, err := svc.AllCabinets(context.Background())
	if err != nil {
		t.Fatalf("AllCabinets() unexpected error: %v", err)
	}
	if len(cabinets) != 3 {
		t.Fatalf("AllCabinets() returned %d cabinets, want 3", len(cabinets))
	}
}

func TestFindCabinet(t *testing.T) {
	svc := newTestService(t, cabinetFixture(t))

	cabinet, err := svc.FindCabinet(context.Background(), "Contracts")
	if err != nil {
		t.Fatalf("FindCabinet() unexpected error: %v", err)
	}
	if cabinet.ID != "cab-2" {
		t.Errorf("FindCabinet() id = %q, want cab-2", cabinet.ID)
	}
}

func TestFindCabinetFirstMatchWins(t *testing.T) {
	svc := newTestService(t, cabinetFixture(t))

	// Both organizations have an Invoices cabinet; the first one wins
	cabinet, err := svc.FindCabinet(context.Background(), "Invoices")
	if err != nil {
		t.Fatalf("FindCabinet() unexpected error: %v", err)
	}
	if cabinet.ID != "cab-1" {
		t.Errorf("FindCabinet() id = %q, want the first match cab-1", cabinet.ID)
	}
}

func TestFindCabinetUnknownName(t *testing.T) {
	svc := newTestService(t, cabinetFixture(t))

	_, err := svc.FindCabinet(context.Background(), "Nope")
	if err == nil {
		t.Fatal("FindCabinet() expected error for unknown name")
	}
	if !strings.Contains(err.Error(), `"Nope"`) {
		t.Errorf("FindCabinet() error = %q, want the name quoted", err)
	}
}
