package model

// Company describes the company the settings belong to
type Company struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
}

// RedLine is a non-negotiable company policy rule
type RedLine struct {
	ID      int    `json:"id"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// ToleranceBand holds preferred/acceptable/flag thresholds for one category
type ToleranceBand struct {
	Preferred  int `json:"preferred"`
	Acceptable int `json:"acceptable"`
	Flag       int `json:"flag"`
}

// RiskTolerance groups tolerance bands per contract dimension
type RiskTolerance struct {
	PaymentTerms      ToleranceBand `json:"paymentTerms"`
	TerminationNotice ToleranceBand `json:"terminationNotice"`
	ContractLength    ToleranceBand `json:"contractLength"`
}

// Notifications holds per-event notification flags
type Notifications struct {
	ExpiringContracts bool `json:"expiringContracts"`
	RedLineViolations bool `json:"redLineViolations"`
	WeeklyDigest      bool `json:"weeklyDigest"`
}

// Benchmarks holds which benchmark datasets are enabled
type Benchmarks struct {
	OwnHistory   bool `json:"ownHistory"`
	SaaSIndustry bool `json:"saasIndustry"`
	Healthcare   bool `json:"healthcare"`
	Financial    bool `json:"financial"`
}

// Settings is the process-wide company configuration
type Settings struct {
	Company       Company       `json:"company"`
	RedLines      []RedLine     `json:"redLines"`
	RiskTolerance RiskTolerance `json:"riskTolerance"`
	Notifications Notifications `json:"notifications"`
	Benchmarks    Benchmarks    `json:"benchmarks"`
}

// SettingsUpdate is a partial settings update; nil sections are left unchanged
type SettingsUpdate struct {
	Company       *Company       `json:"company"`
	RedLines      *[]RedLine     `json:"redLines"`
	RiskTolerance *RiskTolerance `json:"riskTolerance"`
	Notifications *Notifications `json:"notifications"`
	Benchmarks    *Benchmarks    `json:"benchmarks"`
}

// AnalysisContext is the slice of settings embedded into analysis prompts.
// Only enabled red lines are projected in.
type AnalysisContext struct {
	RedLines      []string      `json:"redLines"`
	RiskTolerance RiskTolerance `json:"riskTolerance"`
	CompanyInfo   Company       `json:"companyInfo"`
}
