package service

import (
	"strings"
	"testing"

	"github.com/clausecloud/backend/model"
)

func testAnalysisContext() model.AnalysisContext {
	return model.AnalysisContext{
		RedLines: []string{"Never accept unlimited liability"},
		CompanyInfo: model.Company{
			Name:     "TechStartup Inc.",
			Industry: "saas",
		},
	}
}

func TestAnalysisPrompt(t *testing.T) {
	prompt := AnalysisPrompt("THE CONTRACT BODY", testAnalysisContext())

	for _, want := range []string{
		"THE CONTRACT BODY",
		"Never accept unlimited liability",
		`"riskScore": number (0-20)`,
		"Return ONLY valid JSON",
		"redLineViolations x 5",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Analysis prompt missing %q", want)
		}
	}
}

func TestChatSystemPromptTruncation(t *testing.T) {
	longText := strings.Repeat("a", MaxChatContractChars+100)

	prompt := ChatSystemPrompt(longText, &model.Analysis{RiskLevel: model.RiskLow})

	if !strings.Contains(prompt, "...(truncated)") {
		t.Error("Expected truncation marker for oversized contract text")
	}
	if strings.Contains(prompt, longText) {
		t.Error("Expected contract text to be truncated")
	}
}

func TestChatSystemPromptNoTruncation(t *testing.T) {
	prompt := ChatSystemPrompt("short contract", &model.Analysis{KeyInsights: "fine overall"})

	if strings.Contains(prompt, "...(truncated)") {
		t.Error("Unexpected truncation marker for short contract text")
	}
	if !strings.Contains(prompt, "short contract") {
		t.Error("Expected full contract text in prompt")
	}
	if !strings.Contains(prompt, "fine overall") {
		t.Error("Expected serialized analysis in prompt")
	}
}

func TestComparisonPrompt(t *testing.T) {
	contracts := []*model.Contract{
		{ID: "id-1", Filename: "vendor-a.pdf", Analysis: &model.Analysis{RiskLevel: model.RiskLow}},
		{ID: "id-2", Filename: "vendor-b.pdf", Analysis: &model.Analysis{RiskLevel: model.RiskHigh}},
	}

	prompt := ComparisonPrompt(contracts, testAnalysisContext(), nil)

	for _, want := range []string{
		"Contract 1: vendor-a.pdf (ID: id-1)",
		"Contract 2: vendor-b.pdf (ID: id-2)",
		`"bestChoiceId"`,
		`"threeYearCosts"`,
		"Return ONLY valid JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Comparison prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "WEIGHTING PREFERENCES") {
		t.Error("Unexpected weighting section without weights")
	}
}

func TestComparisonPromptWithWeights(t *testing.T) {
	contracts := []*model.Contract{
		{ID: "id-1", Filename: "a.pdf"},
		{ID: "id-2", Filename: "b.pdf"},
	}

	prompt := ComparisonPrompt(contracts, testAnalysisContext(), map[string]float64{"cost": 0.7})

	if !strings.Contains(prompt, "WEIGHTING PREFERENCES") {
		t.Error("Expected weighting section")
	}
	if !strings.Contains(prompt, `"cost"`) {
		t.Error("Expected weights serialized into prompt")
	}
}

func TestPortfolioQueryPrompt(t *testing.T) {
	contracts := []*model.Contract{
		{ID: "id-1", Filename: "a.pdf", Analysis: &model.Analysis{KeyInsights: "renews yearly"}},
	}

	prompt := PortfolioQueryPrompt(contracts, "Which contracts auto-renew?")

	if !strings.Contains(prompt, "Which contracts auto-renew?") {
		t.Error("Expected question in prompt")
	}
	if !strings.Contains(prompt, "renews yearly") {
		t.Error("Expected contract summaries in prompt")
	}
}
