package service

import (
	"sync"

	"github.com/clausecloud/backend/model"
)

// SettingsStore holds the process-wide company settings singleton
type SettingsStore struct {
	mu       sync.RWMutex
	settings model.Settings
}

// NewSettingsStore creates a store seeded with the default company profile
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{settings: defaultSettings()}
}

func defaultSettings() model.Settings {
	return model.Settings{
		Company: model.Company{
			Name:     "TechStartup Inc.",
			Industry: "saas",
			Size:     "50-200",
		},
		RedLines: []model.RedLine{
			{ID: 1, Label: "Never accept unlimited liability", Enabled: true},
			{ID: 2, Label: "Liability cap must be <= 2x contract value", Enabled: true},
			{ID: 3, Label: "Payment terms must be <= Net 45", Enabled: true},
			{ID: 4, Label: "Auto-renewal notice must be <= 60 days", Enabled: true},
			{ID: 5, Label: "No exclusive partnerships", Enabled: true},
			{ID: 6, Label: "Must include data breach notification", Enabled: false},
			{ID: 7, Label: "Require right to audit vendor", Enabled: false},
		},
		RiskTolerance: model.RiskTolerance{
			PaymentTerms:      model.ToleranceBand{Preferred: 30, Acceptable: 45, Flag: 60},
			TerminationNotice: model.ToleranceBand{Preferred: 30, Acceptable: 60, Flag: 90},
			ContractLength:    model.ToleranceBand{Preferred: 12, Acceptable: 24, Flag: 36},
		},
		Notifications: model.Notifications{
			ExpiringContracts: true,
			RedLineViolations: true,
			WeeklyDigest:      false,
		},
		Benchmarks: model.Benchmarks{
			OwnHistory:   true,
			SaaSIndustry: true,
			Healthcare:   false,
			Financial:    false,
		},
	}
}

// Get returns a copy of the current settings
func (s *SettingsStore) Get() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// copyLocked must be called with at least a read lock held
func (s *SettingsStore) copyLocked() model.Settings {
	settings := s.settings
	settings.RedLines = make([]model.RedLine, len(s.settings.RedLines))
	copy(settings.RedLines, s.settings.RedLines)
	return settings
}

// Update applies a section-wise merge: sections present in the update
// replace the current ones wholesale, absent sections are untouched.
func (s *SettingsStore) Update(update model.SettingsUpdate) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Company != nil {
		s.settings.Company = *update.Company
	}
	if update.RedLines != nil {
		s.settings.RedLines = *update.RedLines
	}
	if update.RiskTolerance != nil {
		s.settings.RiskTolerance = *update.RiskTolerance
	}
	if update.Notifications != nil {
		s.settings.Notifications = *update.Notifications
	}
	if update.Benchmarks != nil {
		s.settings.Benchmarks = *update.Benchmarks
	}

	return s.copyLocked()
}

// ReplaceRedLines swaps the whole red-line array
func (s *SettingsStore) ReplaceRedLines(redLines []model.RedLine) []model.RedLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.RedLines = redLines

	result := make([]model.RedLine, len(redLines))
	copy(result, redLines)
	return result
}

// AnalysisContext projects the settings slice that analysis prompts embed.
// Only enabled red lines are included.
func (s *SettingsStore) AnalysisContext() model.AnalysisContext {
	s.mu.RLock()
	defer s.mu.RUnlock()

	redLines := make([]string, 0, len(s.settings.RedLines))
	for _, rl := range s.settings.RedLines {
		if rl.Enabled {
			redLines = append(redLines, rl.Label)
		}
	}

	return model.AnalysisContext{
		RedLines:      redLines,
		RiskTolerance: s.settings.RiskTolerance,
		CompanyInfo:   s.settings.Company,
	}
}
