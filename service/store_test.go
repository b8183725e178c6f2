package service

import (
	"testing"

	"github.com/clausecloud/backend/config"
	"github.com/clausecloud/backend/model"
)

func newTestStore(maxContracts int) *ContractStore {
	return NewContractStore(&config.StoreConfig{MaxContracts: maxContracts})
}

func TestContractStoreAddAndGet(t *testing.T) {
	store := newTestStore(0)

	contract := &model.Contract{
		Filename: "test.pdf",
		Text:     "Sample agreement text",
	}

	id := store.Add(contract)
	if id == "" {
		t.Fatal("Expected a generated ID")
	}
	if contract.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	retrieved := store.GetByID(id)
	if retrieved == nil {
		t.Fatal("Expected to retrieve contract")
	}
	if retrieved.Filename != "test.pdf" {
		t.Errorf("Expected filename test.pdf, got %s", retrieved.Filename)
	}
	if retrieved.Text != "Sample agreement text" {
		t.Errorf("Unexpected text: %s", retrieved.Text)
	}

	if store.GetByID("non-existent") != nil {
		t.Error("Expected nil for non-existent contract")
	}
}

func TestContractStoreUniqueIDs(t *testing.T) {
	store := newTestStore(0)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := store.Add(&model.Contract{Filename: "a.pdf"})
		if seen[id] {
			t.Fatalf("Duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestContractStoreGetAll(t *testing.T) {
	store := newTestStore(0)

	store.Add(&model.Contract{Filename: "first.pdf"})
	store.Add(&model.Contract{Filename: "second.pdf"})

	all := store.GetAll()
	if len(all) != 2 {
		t.Fatalf("Expected 2 contracts, got %d", len(all))
	}
}

func TestContractStoreDelete(t *testing.T) {
	store := newTestStore(0)

	id := store.Add(&model.Contract{Filename: "delete-me.pdf"})

	if !store.Delete(id) {
		t.Error("Expected first delete to succeed")
	}
	if store.Delete(id) {
		t.Error("Expected second delete to fail")
	}
	if store.GetByID(id) != nil {
		t.Error("Expected contract to be gone after delete")
	}
}

func TestContractStoreUpdate(t *testing.T) {
	store := newTestStore(0)

	id := store.Add(&model.Contract{
		Filename: "original.pdf",
		Analysis: &model.Analysis{RiskLevel: model.RiskLow, RiskScore: 2},
	})

	updated := store.Update(id, &model.Analysis{RiskLevel: model.RiskHigh, RiskScore: 15}, "")
	if updated == nil {
		t.Fatal("Expected updated contract")
	}
	if updated.Analysis.RiskLevel != model.RiskHigh {
		t.Errorf("Expected riskLevel high, got %s", updated.Analysis.RiskLevel)
	}
	if updated.Filename != "original.pdf" {
		t.Errorf("Filename should be unchanged, got %s", updated.Filename)
	}

	if store.Update("non-existent", nil, "x.pdf") != nil {
		t.Error("Expected nil updating a non-existent contract")
	}
}

func TestContractStoreSearch(t *testing.T) {
	store := newTestStore(0)

	store.Add(&model.Contract{
		Filename: "AWS-Agreement.pdf",
		Text:     "Cloud services agreement between parties",
	})
	store.Add(&model.Contract{
		Filename: "office-lease.pdf",
		Text:     "Lease for office space",
		Analysis: &model.Analysis{KeyInsights: "Unlimited liability clause present"},
	})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"case-insensitive filename match", "aws", 1},
		{"text match", "OFFICE SPACE", 1},
		{"serialized analysis match", "unlimited liability", 1},
		{"no match", "zzz-nothing", 0},
		{"matches both", "agreement", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := store.Search(tt.query)
			if len(results) != tt.want {
				t.Errorf("Search(%q): expected %d results, got %d", tt.query, tt.want, len(results))
			}
		})
	}
}

func TestContractStoreCleanup(t *testing.T) {
	store := newTestStore(3)

	var firstID string
	for i := 0; i < 4; i++ {
		id := store.Add(&model.Contract{Filename: "c.pdf"})
		if i == 0 {
			firstID = id
		}
	}

	if store.Count() != 3 {
		t.Errorf("Expected store capped at 3 contracts, got %d", store.Count())
	}
	if store.GetByID(firstID) != nil {
		t.Error("Expected oldest contract to be evicted")
	}
}

func TestContractStoreSetFileURL(t *testing.T) {
	store := newTestStore(0)

	id := store.Add(&model.Contract{Filename: "archived.pdf"})
	store.SetFileURL(id, "http://storage/contracts/archived.pdf")

	if got := store.GetByID(id).FileURL; got != "http://storage/contracts/archived.pdf" {
		t.Errorf("Unexpected file URL: %s", got)
	}

	// No-op for unknown IDs
	store.SetFileURL("non-existent", "http://x")
}
