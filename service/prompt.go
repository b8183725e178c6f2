package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clausecloud/backend/model"
)

// MaxChatContractChars caps how much contract text is replayed into chat
// prompts. The original analysis pass always sees the full text.
const MaxChatContractChars = 50000

// marshalContext serializes a value for embedding into a prompt
func marshalContext(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// AnalysisPrompt renders the single-contract analysis instruction. The
// completion must come back as bare JSON in the shape enumerated below.
func AnalysisPrompt(contractText string, settings model.AnalysisContext) string {
	return fmt.Sprintf(`You are a contract analysis expert. Analyze this contract and provide a structured analysis.

COMPANY CONTEXT:
%s

CONTRACT TEXT:
%s

Provide analysis in the following JSON format:
{
  "contractType": "string (e.g., 'SaaS Service Agreement')",
  "parties": "string (e.g., 'CompanyA <-> CompanyB')",
  "term": "string (e.g., '12 months')",
  "autoRenews": boolean,
  "value": "string (e.g., '$50,000/year')",
  "riskLevel": "string (low|medium|high)",
  "riskScore": number (0-20),
  "criticalIssues": [
    {
      "title": "string",
      "description": "string",
      "section": "string (e.g., 'Section 8.2')",
      "citation": "string (e.g., 'Section 8.2, Page 4')",
      "recommendation": "string"
    }
  ],
  "moderateConcerns": [
    {
      "title": "string",
      "description": "string",
      "section": "string (optional)"
    }
  ],
  "favorableTerms": ["string"],
  "keyInsights": "string - brief summary of main takeaways"
}

Calculate risk score as: (criticalIssues x 3) + (moderateConcerns x 1.5) + (redLineViolations x 5)
- Score <= 5: low risk
- Score 6-12: medium risk
- Score >= 13: high risk

Flag any violations of the company's red lines. Cite specific sections for every claim.

CRITICAL: Return ONLY valid JSON, no other text.`, marshalContext(settings), contractText)
}

// ChatSystemPrompt renders the system context for conversational Q&A about
// one contract. The contract text is truncated so repeated turns stay within
// model input limits.
func ChatSystemPrompt(contractText string, analysis *model.Analysis) string {
	truncated := contractText
	marker := ""
	if len(truncated) > MaxChatContractChars {
		truncated = truncated[:MaxChatContractChars]
		marker = " ...(truncated)"
	}

	return fmt.Sprintf(`You are a helpful contract analysis assistant. You have access to the full contract text and previous analysis. Answer questions accurately and cite specific sections when relevant.

CONTRACT ANALYSIS:
%s

CONTRACT TEXT (for reference):
%s%s

When answering:
- Be specific and cite sections
- Explain WHY clauses matter, not just what they say
- Provide actionable recommendations when relevant
- Keep responses concise but thorough`, marshalContext(analysis), truncated, marker)
}

// ComparisonPrompt renders the multi-contract comparison instruction with a
// per-contract block for every candidate. Optional weights are the caller's
// prioritization hints (e.g. {"cost": 0.6, "risk": 0.4}).
func ComparisonPrompt(contracts []*model.Contract, settings model.AnalysisContext, weights map[string]float64) string {
	var blocks strings.Builder
	for i, c := range contracts {
		fmt.Fprintf(&blocks, "\nContract %d: %s (ID: %s)\nAnalysis: %s\n", i+1, c.Filename, c.ID, marshalContext(c.Analysis))
	}

	weighting := ""
	if len(weights) > 0 {
		weighting = fmt.Sprintf("\nWEIGHTING PREFERENCES (higher means more important):\n%s\n", marshalContext(weights))
	}

	return fmt.Sprintf(`You are a contract comparison expert. Compare these contracts and recommend the best choice.

COMPANY CONTEXT:
%s

CONTRACTS TO COMPARE:
%s%s
Provide comparison and recommendation in JSON format:
{
  "bestChoiceId": "contract ID",
  "reasoning": ["reason 1", "reason 2", ...],
  "tradeoffs": "string - any concerns about the recommended choice",
  "alternativeAdvice": {
    "contractId": "ID of alternative",
    "negotiationItems": ["item 1", "item 2", ...],
    "estimatedImpact": "string"
  },
  "tco": {
    "threeYearCosts": [
      {"contractId": "ID", "name": "name", "cost": "string"}
    ],
    "savings": "string"
  }
}

CRITICAL: Return ONLY valid JSON, no other text.`, marshalContext(settings), blocks.String(), weighting)
}

// PortfolioQueryPrompt renders a portfolio-wide question over every stored
// contract's summary. Full texts are deliberately left out.
func PortfolioQueryPrompt(contracts []*model.Contract, query string) string {
	var summaries strings.Builder
	for i, c := range contracts {
		fmt.Fprintf(&summaries, "\nContract %d: %s (ID: %s)\nAnalysis: %s\n", i+1, c.Filename, c.ID, marshalContext(c.Analysis))
	}

	return fmt.Sprintf(`You are a contract portfolio analyst. Using the contract summaries below, answer the user's question. Reference contracts by filename when relevant and be specific about which contracts support each point.

CONTRACT PORTFOLIO:
%s
QUESTION:
%s`, summaries.String(), query)
}

// CorrectiveReprompt asks the model to fix a reply that failed JSON parsing
const CorrectiveReprompt = `Your previous reply was not valid JSON matching the requested format. Return ONLY the corrected JSON object, with no surrounding prose, markdown, or comments.`
