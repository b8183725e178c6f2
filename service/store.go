package service

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/clausecloud/backend/config"
	"github.com/clausecloud/backend/model"
	"github.com/google/uuid"
)

// ContractStore is an in-memory store for contracts
// In production, this should be replaced with a database
type ContractStore struct {
	contracts    map[string]*model.Contract
	mu           sync.RWMutex
	maxContracts int // Maximum contracts to keep, 0 = unlimited
}

// NewContractStore creates a contract store with the configured size cap
func NewContractStore(cfg *config.StoreConfig) *ContractStore {
	maxContracts := 0
	if cfg != nil && cfg.MaxContracts > 0 {
		maxContracts = cfg.MaxContracts
	}
	return &ContractStore{
		contracts:    make(map[string]*model.Contract),
		maxContracts: maxContracts,
	}
}

// Add stores a new contract under a fresh identifier and returns the ID.
// Identifiers are never reused, even after deletion.
func (s *ContractStore) Add(contract *model.Contract) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract.ID = uuid.New().String()
	now := time.Now()
	contract.CreatedAt = now
	contract.UpdatedAt = now
	s.contracts[contract.ID] = contract

	s.cleanupIfNeeded()

	return contract.ID
}

// GetByID returns the contract for id, or nil when absent
func (s *ContractStore) GetByID(id string) *model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contracts[id]
}

// GetAll returns every stored contract, oldest first
func (s *ContractStore) GetAll() []*model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Update replaces the analysis and/or filename of an existing contract and
// returns the updated record, or nil when absent.
func (s *ContractStore) Update(id string, analysis *model.Analysis, filename string) *model.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[id]
	if !ok {
		return nil
	}

	if analysis != nil {
		c.Analysis = analysis
	}
	if filename != "" {
		c.Filename = filename
	}
	c.UpdatedAt = time.Now()
	return c
}

// SetFileURL records the archived-upload URL for a contract
func (s *ContractStore) SetFileURL(id, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.contracts[id]; ok {
		c.FileURL = url
		c.UpdatedAt = time.Now()
	}
}

// Delete removes a contract and reports whether it existed
func (s *ContractStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[id]; !ok {
		return false
	}
	delete(s.contracts, id)
	return true
}

// Search returns contracts whose filename, text, or serialized analysis
// contains the query, case-insensitively. Linear scan; fine at this scale.
func (s *ContractStore) Search(query string) []*model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lowerQuery := strings.ToLower(query)

	var results []*model.Contract
	for _, c := range s.contracts {
		searchable := c.Filename + "\n" + c.Text
		if c.Analysis != nil {
			if data, err := json.Marshal(c.Analysis); err == nil {
				searchable += "\n" + string(data)
			}
		}
		if strings.Contains(strings.ToLower(searchable), lowerQuery) {
			results = append(results, c)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results
}

// Count returns the number of contracts in the store
func (s *ContractStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}

// Clear removes every contract
func (s *ContractStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts = make(map[string]*model.Contract)
}

// cleanupIfNeeded removes oldest contracts if store exceeds maxContracts
// Must be called with lock held
func (s *ContractStore) cleanupIfNeeded() {
	if s.maxContracts <= 0 {
		return // Unlimited
	}

	if len(s.contracts) <= s.maxContracts {
		return
	}

	contracts := make([]*model.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		contracts = append(contracts, c)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.Before(contracts[j].CreatedAt)
	})

	removeCount := len(contracts) - s.maxContracts
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old contract",
			"contract_id", contracts[i].ID,
			"created_at", contracts[i].CreatedAt,
		)
		delete(s.contracts, contracts[i].ID)
	}
}
