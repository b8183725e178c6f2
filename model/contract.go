package model

import (
	"time"
)

// Contract represents an analyzed contract document
type Contract struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Text      string    `json:"text"`
	Analysis  *Analysis `json:"analysis,omitempty"`
	FileURL   string    `json:"fileUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Risk level constants as produced by the analysis model
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Issue is a single flagged problem in a contract
type Issue struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Section        string `json:"section,omitempty"`
	Citation       string `json:"citation,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Analysis is the structured result of a single-contract analysis
type Analysis struct {
	ContractType     string   `json:"contractType"`
	Parties          string   `json:"parties"`
	Term             string   `json:"term"`
	AutoRenews       bool     `json:"autoRenews"`
	Value            string   `json:"value"`
	RiskLevel        string   `json:"riskLevel"`
	RiskScore        float64  `json:"riskScore"`
	CriticalIssues   []Issue  `json:"criticalIssues"`
	ModerateConcerns []Issue  `json:"moderateConcerns"`
	FavorableTerms   []string `json:"favorableTerms"`
	KeyInsights      string   `json:"keyInsights"`
}

// ChatMessage role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in a contract conversation
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TCOEntry is a single row of the three-year cost table in a comparison
type TCOEntry struct {
	ContractID string `json:"contractId"`
	Name       string `json:"name"`
	Cost       string `json:"cost"`
}

// TCO is the total-cost-of-ownership section of a comparison
type TCO struct {
	ThreeYearCosts []TCOEntry `json:"threeYearCosts"`
	Savings        string     `json:"savings"`
}

// AlternativeAdvice describes how negotiating a runner-up could change the outcome
type AlternativeAdvice struct {
	ContractID       string   `json:"contractId"`
	NegotiationItems []string `json:"negotiationItems"`
	EstimatedImpact  string   `json:"estimatedImpact"`
}

// Comparison is the structured result of a multi-contract comparison
type Comparison struct {
	BestChoiceID      string             `json:"bestChoiceId"`
	Reasoning         []string           `json:"reasoning"`
	Tradeoffs         string             `json:"tradeoffs"`
	AlternativeAdvice *AlternativeAdvice `json:"alternativeAdvice,omitempty"`
	TCO               *TCO               `json:"tco,omitempty"`
}
