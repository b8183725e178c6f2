package handler

import (
	"context"

	"github.com/clausecloud/backend/model"
)

// LLM is the slice of the completion gateway the handlers depend on.
// Tests substitute a fake; production wires *service.LLMService.
type LLM interface {
	AnalyzeContract(ctx context.Context, contractText string, settings model.AnalysisContext) (*model.Analysis, error)
	Chat(ctx context.Context, contract *model.Contract, history []model.ChatMessage, message string) (string, error)
	Compare(ctx context.Context, contracts []*model.Contract, settings model.AnalysisContext, weights map[string]float64) (*model.Comparison, error)
	PortfolioQuery(ctx context.Context, contracts []*model.Contract, query string) (string, error)
}
